package domain

import (
	"fmt"
	"strings"
	"time"
)

type ClientStatus string

const (
	ClientStatusActive   ClientStatus = "Active"
	ClientStatusInactive ClientStatus = "Inactive"
)

type Client struct {
	ID             string
	UserID         string
	Name           string
	Email          string
	Phone          string
	CompanyName    string
	Address        string
	Status         ClientStatus
	TrialStartDate *time.Time
	TrialEndDate   *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewClient creates a new active client owned by userID.
func NewClient(userID, name, email string) *Client {
	now := time.Now()
	return &Client{
		UserID:    userID,
		Name:      strings.TrimSpace(name),
		Email:     strings.TrimSpace(email),
		Status:    ClientStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate returns an error if the client is invalid
func (c *Client) Validate() error {
	if c.UserID == "" {
		return fmt.Errorf("%w: owning user is required", ErrValidation)
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: client name is required", ErrValidation)
	}
	if strings.TrimSpace(c.Email) == "" {
		return fmt.Errorf("%w: client email is required", ErrValidation)
	}
	if c.Status != ClientStatusActive && c.Status != ClientStatusInactive {
		return fmt.Errorf("%w: unknown client status %q", ErrValidation, c.Status)
	}
	return nil
}
