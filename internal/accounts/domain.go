package accounts

import "time"

// Officer is a sworn officer account.
type Officer struct {
	ID           int64
	Email        string
	PasswordHash string
	Name         string
	Rank         string
	Department   string
	BadgeNumber  string
	CreatedAt    time.Time
}

// Civilian is a driver account keyed by license number.
type Civilian struct {
	ID            int64
	Email         string
	PasswordHash  string
	Name          string
	LicenseNumber string
	CreatedAt     time.Time
}

// RosterEntry is an authoritative badge/name pair allowed to self-register.
type RosterEntry struct {
	BadgeNumber string
	Name        string
}

// PublicOfficer is the officer representation safe to return to clients.
type PublicOfficer struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Rank        string    `json:"rank"`
	Department  string    `json:"department"`
	BadgeNumber string    `json:"badge_number"`
	CreatedAt   time.Time `json:"created_at"`
}

// PublicCivilian is the civilian representation safe to return to clients.
type PublicCivilian struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	LicenseNumber string    `json:"license_number"`
	CreatedAt     time.Time `json:"created_at"`
}

// Public strips credential material from the officer.
func (o Officer) Public() PublicOfficer {
	return PublicOfficer{
		ID:          o.ID,
		Email:       o.Email,
		Name:        o.Name,
		Rank:        o.Rank,
		Department:  o.Department,
		BadgeNumber: o.BadgeNumber,
		CreatedAt:   o.CreatedAt,
	}
}

// Public strips credential material from the civilian.
func (c Civilian) Public() PublicCivilian {
	return PublicCivilian{
		ID:            c.ID,
		Email:         c.Email,
		Name:          c.Name,
		LicenseNumber: c.LicenseNumber,
		CreatedAt:     c.CreatedAt,
	}
}

// OfficerRegistration is the input to officer self-registration.
type OfficerRegistration struct {
	Email       string `json:"email" validate:"required,email,max=254"`
	Password    string `json:"password" validate:"required,max=72"`
	Name        string `json:"name" validate:"required,max=200"`
	Rank        string `json:"rank" validate:"max=100"`
	Department  string `json:"department" validate:"max=200"`
	BadgeNumber string `json:"badge_number" validate:"required,max=64"`
}

// CivilianRegistration is the input to civilian self-registration.
type CivilianRegistration struct {
	Email         string `json:"email" validate:"required,email,max=254"`
	Password      string `json:"password" validate:"required,max=72"`
	Name          string `json:"name" validate:"required,max=200"`
	LicenseNumber string `json:"license_number" validate:"required,max=64"`
}

// Credentials is the login input shared by both account variants.
type Credentials struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// OfficerSession is returned by a successful officer login.
type OfficerSession struct {
	Token     string
	ExpiresAt time.Time
	User      PublicOfficer
}

// CivilianSession is returned by a successful civilian login.
type CivilianSession struct {
	Token     string
	ExpiresAt time.Time
	User      PublicCivilian
}
