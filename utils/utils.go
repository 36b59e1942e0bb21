package utils

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateOTP generates a 6-digit OTP
func GenerateOTP() string {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	otp := ""
	for i := 0; i < 6; i++ {
		otp += fmt.Sprintf("%d", rng.Intn(10))
	}
	return otp
}

// GenerateTransactionRef generates a unique payment transaction reference
func GenerateTransactionRef() string {
	return "TXN-" + strings.ToUpper(uuid.NewString())
}

// GenerateCertificateNumber generates a unique certificate serial
func GenerateCertificateNumber() string {
	return fmt.Sprintf("KL-%d-%s", time.Now().Year(), strings.ToUpper(uuid.NewString()[:8]))
}
