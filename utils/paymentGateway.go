package utils

import (
	"fmt"

	"kavyalearn/config"

	"github.com/go-resty/resty/v2"
)

// GatewayVerifyResponse represents the verification response from the payment gateway
type GatewayVerifyResponse struct {
	Status  string `json:"status"` // success, failed
	Message string `json:"message"`
	Data    struct {
		PaymentID string  `json:"payment_id"`
		OrderID   string  `json:"order_id"`
		Amount    float64 `json:"amount"`
		State     string  `json:"state"` // captured, failed, pending
	} `json:"data"`
}

// VerifyGatewayPayment asks the payment gateway whether a payment was really
// captured. When no gateway URL is configured the recorded status is trusted
// as-is (sandbox/local mode).
func VerifyGatewayPayment(gatewayPaymentID string) (bool, error) {
	if config.AppConfig.GatewayVerifyURL == "" {
		return true, nil
	}

	client := resty.New()

	var result GatewayVerifyResponse
	resp, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetHeader("X-Api-Key", config.AppConfig.GatewayApiKey).
		SetHeader("X-Api-Secret", config.AppConfig.GatewaySecretKey).
		SetQueryParam("payment_id", gatewayPaymentID).
		SetResult(&result).
		Get(config.AppConfig.GatewayVerifyURL)

	if err != nil {
		return false, fmt.Errorf("gateway verification request failed: %v", err)
	}

	if resp.StatusCode() != 200 {
		return false, fmt.Errorf("gateway verification returned status %d", resp.StatusCode())
	}

	return result.Status == "success" && result.Data.State == "captured", nil
}
