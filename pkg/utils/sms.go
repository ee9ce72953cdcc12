package utils

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
)

func sendSMS(message string, recipients []string) error {
	username := os.Getenv("SMS_USERNAME")
	apiKey := os.Getenv("SMS_API_KEY")

	if username == "" {
		return fmt.Errorf("SMS username not set")
	}
	if apiKey == "" {
		return fmt.Errorf("SMS API key not set")
	}

	baseURL := os.Getenv("SMS_API_URL")
	if baseURL == "" {
		baseURL = "https://api.bulksms.com/v1/messages"
	}

	// Prepare the form data
	data := url.Values{}
	data.Set("username", username)
	data.Set("to", strings.Join(recipients, ","))
	data.Set("message", message)

	req, err := http.NewRequest("POST", baseURL, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("apiKey", apiKey)
	req.Header.Set("Accept", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to send SMS: status code %d", resp.StatusCode)
	}

	log.Printf("Sent SMS to %d recipient(s)", len(recipients))
	return nil
}

// SendPasswordResetSMS delivers a freshly generated password to the user.
func SendPasswordResetSMS(phone, newPassword string) error {
	msg := fmt.Sprintf("Your UniLift password has been reset. Your new password is: %s. Please log in and change it immediately.", newPassword)
	return sendSMS(msg, []string{phone})
}
