package models

import (
	"time"
)

type Client struct {
	ID          ClientID  `bson:"_id" json:"id"`
	FirstName   string    `bson:"first_name" json:"first_name"`
	LastName    string    `bson:"last_name" json:"last_name"`
	Email       string    `bson:"email" json:"email"`
	Description string    `bson:"description,omitempty" json:"description"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}

type CreateClientRequest struct {
	FirstName   string `json:"first_name" binding:"required,min=1"`
	LastName    string `json:"last_name" binding:"required,min=1"`
	Email       string `json:"email" binding:"required,email"`
	Description string `json:"description"`
}

// NewClient builds a Client with a generated ID and creation timestamp.
func NewClient(req CreateClientRequest) Client {
	return Client{
		ID:          NewClientID(),
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Description: req.Description,
		CreatedAt:   time.Now().UTC(),
	}
}
