package dto

import "time"

type RegisterInput struct {
	FirstName       string
	MiddleName      string
	LastName        string
	Username        string
	Gender          string
	DateOfBirth     string
	Phone           string
	Password        string
	ConfirmPassword string
	Role            string
}

type ProfileOutput struct {
	ID          string
	Username    string
	FullName    string
	FirstName   string
	MiddleName  string
	LastName    string
	Gender      string
	DateOfBirth string
	Phone       string
	Role        string
	CreatedAt   time.Time
}

type LoginInput struct {
	Username string
	Password string
}
