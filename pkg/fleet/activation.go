package fleet

import "time"

// ActivationCode is a single-use token binding a physical device to a
// tenant during onboarding. Redemption is a conditional unused->used
// update so two devices can never both claim the same code.
type ActivationCode struct {
	Code           string     `json:"code"`
	CompanyID      string     `json:"company_id"`
	Type           CodeType   `json:"type"`
	Status         CodeStatus `json:"status"`
	DeviceName     string     `json:"device_name,omitempty"`
	DeviceType     string     `json:"device_type,omitempty"`
	ExpiresAt      time.Time  `json:"expires_at"`
	UsedAt         *time.Time `json:"used_at,omitempty"`
	UsedByDeviceID string     `json:"used_by_device_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// Expired reports whether the code is past its deadline at now.
func (c *ActivationCode) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

type CodeType string

const (
	CodeTypeActivation     CodeType = "activation"
	CodeTypeQRRegistration CodeType = "qr_registration"
)

type CodeStatus string

const (
	CodeUnused CodeStatus = "unused"
	CodeUsed   CodeStatus = "used"
)

// QRPayload is the literal JSON object encoded into a registration QR
// image. The device scans it and posts the code back to /activate.
type QRPayload struct {
	ActivationURL string    `json:"activation_url"`
	Code          string    `json:"code"`
	CompanyID     string    `json:"company_id"`
	DeviceName    string    `json:"device_name,omitempty"`
	DeviceType    string    `json:"device_type,omitempty"`
	ExpiresAt     time.Time `json:"expires_at"`
}
