package services

import (
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"

	"skillhive/internal/mail"
	"skillhive/internal/metrics"
	"skillhive/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const otpDigits = 6

// Auth implements the OTP login state machine:
// approved user -> passcode issued -> verified within expiry -> session.
type Auth struct {
	DB     *gorm.DB
	Mailer mail.Sender

	AllowedDomain string
	OTPTTL        time.Duration

	// Overridable clock, for expiry tests.
	Now func() time.Time
}

func NewAuth(db *gorm.DB, mailer mail.Sender, allowedDomain string, ttl time.Duration) *Auth {
	return &Auth{
		DB:            db,
		Mailer:        mailer,
		AllowedDomain: allowedDomain,
		OTPTTL:        ttl,
		Now:           time.Now,
	}
}

// RequestLogin issues a one-time passcode for the given email and mails it.
// Returns the normalized email to retain as the pending-login handle.
// A mail delivery failure does not invalidate the stored passcode: the user
// can still complete login if the code reaches them another way.
func (a *Auth) RequestLogin(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if !strings.HasSuffix(email, "@"+a.AllowedDomain) {
		return "", ErrDomainNotAllowed
	}

	var user models.User
	if err := a.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", ErrUserNotFound
		}
		return "", err
	}
	if !user.IsApproved {
		return "", ErrNotApproved
	}
	if !user.IsActive {
		return "", ErrInactive
	}

	code, err := generateOTP()
	if err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	hashStr := string(hash)
	expires := a.Now().Add(a.OTPTTL)
	updates := map[string]interface{}{
		"otp_hash":       hashStr,
		"otp_expires_at": expires,
	}
	if err := a.DB.Model(&user).Updates(updates).Error; err != nil {
		return "", err
	}
	metrics.OTPIssued.Inc()

	subject := "[SkillHive] Your sign-in code"
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your SkillHive sign-in code is <strong>%s</strong>. "+
			"It expires in %d minutes.</p>",
		user.DisplayName, code, int(a.OTPTTL.Minutes()))
	if err := a.Mailer.Send(user.Email, subject, body); err != nil {
		log.Printf("failed to send OTP mail to %s: %v", user.Email, err)
	}

	return email, nil
}

// VerifyOTP consumes a pending passcode. On success the code and expiry are
// cleared (single use) and the last-login timestamp is set.
func (a *Auth) VerifyOTP(email, code string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	code = strings.TrimSpace(code)

	var user models.User
	if err := a.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNoPendingLogin
		}
		return nil, err
	}
	if user.OTPHash == nil || user.OTPExpiresAt == nil {
		return nil, ErrNoPendingLogin
	}
	if !a.Now().Before(*user.OTPExpiresAt) {
		return nil, ErrOTPExpired
	}
	if bcrypt.CompareHashAndPassword([]byte(*user.OTPHash), []byte(code)) != nil {
		return nil, ErrOTPMismatch
	}

	now := a.Now()
	updates := map[string]interface{}{
		"otp_hash":       nil,
		"otp_expires_at": nil,
		"last_login_at":  now,
	}
	if err := a.DB.Model(&user).Updates(updates).Error; err != nil {
		return nil, err
	}
	user.OTPHash = nil
	user.OTPExpiresAt = nil
	user.LastLoginAt = &now
	metrics.Logins.Inc()

	return &user, nil
}

func generateOTP() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < otpDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", otpDigits, n), nil
}
