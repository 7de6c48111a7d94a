package domain

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type SellStatus string

const (
	SellSubmitted       SellStatus = "submitted"
	SellUnderReview     SellStatus = "under_review"
	SellAccepted        SellStatus = "accepted"
	SellRejected        SellStatus = "rejected"
	SellPickupScheduled SellStatus = "pickup_scheduled"
	SellCompleted       SellStatus = "completed"
	SellCancelled       SellStatus = "cancelled"
)

// Terminal reports whether no further transition is possible.
func (s SellStatus) Terminal() bool {
	return s == SellCancelled || s == SellCompleted || s == SellRejected
}

type SellImage struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

type SellImages []SellImage

func (s *SellImages) Scan(src interface{}) error {
	return scanJSON(src, s)
}

func (s SellImages) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	return valueJSON([]SellImage(s))
}

// SellSubmission is a user's request to sell a device.
type SellSubmission struct {
	ID           uuid.UUID `json:"_id" db:"id"`
	SubmissionID string    `json:"submissionId" db:"submission_id"`
	UserID       uuid.UUID `json:"user" db:"user_id"`

	DeviceType string `json:"deviceType" db:"device_type"`
	Brand      string `json:"brand" db:"brand"`
	Model      string `json:"model" db:"model"`
	Year       string `json:"year" db:"year"`
	Condition  string `json:"condition" db:"condition"`

	Processor       string `json:"processor" db:"processor"`
	RAM             string `json:"ram" db:"ram"`
	Storage         string `json:"storage" db:"storage"`
	StorageType     string `json:"storageType" db:"storage_type"`
	ScreenSize      string `json:"screenSize" db:"screen_size"`
	Graphics        string `json:"graphics" db:"graphics"`
	OperatingSystem string `json:"operatingSystem" db:"operating_system"`

	Scratches         string `json:"scratches" db:"scratches"`
	Dents             string `json:"dents" db:"dents"`
	ScreenCondition   string `json:"screenCondition" db:"screen_condition"`
	KeyboardCondition string `json:"keyboardCondition" db:"keyboard_condition"`
	BatteryHealth     string `json:"batteryHealth" db:"battery_health"`
	ChargerIncluded   bool   `json:"chargerIncluded" db:"charger_included"`
	OriginalBox       bool   `json:"originalBox" db:"original_box"`
	FunctionalIssues  string `json:"functionalIssues" db:"functional_issues"`

	Name    string `json:"name" db:"name"`
	Email   string `json:"email" db:"email"`
	Phone   string `json:"phone" db:"phone"`
	Pincode string `json:"pincode" db:"pincode"`
	City    string `json:"city" db:"city"`
	Address string `json:"address" db:"address"`

	Images         SellImages `json:"images" db:"images"`
	EstimatedPrice int        `json:"estimatedPrice" db:"estimated_price"`
	FinalPrice     *int       `json:"finalPrice,omitempty" db:"final_price"`
	Status         SellStatus `json:"status" db:"status"`
	CreatedAt      time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time  `json:"updatedAt" db:"updated_at"`
}

// Cancel moves a non-terminal submission to cancelled.
func (s *SellSubmission) Cancel(now time.Time) error {
	if s.Status.Terminal() {
		return fmt.Errorf("submission %s is already %s: %w", s.SubmissionID, s.Status, ErrConflict)
	}
	s.Status = SellCancelled
	s.UpdatedAt = now
	return nil
}
