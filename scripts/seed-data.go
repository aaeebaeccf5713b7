//go:build ignore
// +build ignore

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
)

func main() {
	apiURL := os.Getenv("API_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8111"
	}

	userID := os.Getenv("USER_ID")
	if userID == "" {
		userID = "local-dev-user"
	}

	authToken := os.Getenv("AUTH_TOKEN")

	log.Printf("🌱 Seeding data for user: %s", userID)
	log.Printf("📡 API URL: %s", apiURL)

	c := &client{baseURL: apiURL, userID: userID, token: authToken, http: &http.Client{}}
	if authToken != "" {
		log.Println("🔐 Using provided auth token")
	} else {
		log.Println("ℹ️  No auth token provided - backend must be running with SKIP_AUTH=true")
	}

	if err := seedProfile(c); err != nil {
		log.Fatalf("Failed to seed profile: %v", err)
	}
	if err := seedMetrics(c); err != nil {
		log.Fatalf("Failed to seed health metrics: %v", err)
	}
	if err := seedChat(c); err != nil {
		log.Fatalf("Failed to seed chat history: %v", err)
	}

	log.Println("✅ Successfully seeded all test data!")

	log.Println("")
	log.Println("🔍 Verifying seeded data is queryable...")
	if err := verifySeededData(c); err != nil {
		log.Fatalf("❌ Verification failed: %v", err)
	}
	log.Println("✅ All data verified successfully!")
}

type client struct {
	baseURL string
	userID  string
	token   string
	http    *http.Client
}

// do sends a JSON request and decodes the response into out, if non-nil.
func (c *client) do(method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	} else {
		req.Header.Set("X-Debug-Impersonate-User", c.userID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s %s: %d %s", method, path, resp.StatusCode, msg)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func seedProfile(c *client) error {
	log.Println("🫀 Saving profile...")
	return c.do(http.MethodPut, "/v1/profile", map[string]any{
		"name": "Demo Patient",
		"profile": map[string]any{
			"age":              "58",
			"height":           "172",
			"weight":           "88",
			"systolic":         "142",
			"diastolic":        "88",
			"totalCholesterol": "228",
			"smoker":           false,
			"diabetic":         false,
			"familyHistory":    true,
		},
	}, nil)
}

func seedMetrics(c *client) error {
	log.Println("📈 Creating health metrics...")

	metrics := []struct {
		kind, value, unit string
	}{
		{"heartRate", "68", "bpm"},
		{"heartRate", "74", "bpm"},
		{"heartRate", "103", "bpm"},
		{"bloodPressure", "138/86", "mmHg"},
		{"bloodPressure", "142/88", "mmHg"},
		{"bmi", "29.7", ""},
	}

	for _, m := range metrics {
		var created struct {
			Status string `json:"status"`
		}
		err := c.do(http.MethodPost, "/v1/metrics", map[string]string{
			"kind": m.kind, "value": m.value, "unit": m.unit,
		}, &created)
		if err != nil {
			return fmt.Errorf("failed to create metric %s=%s: %w", m.kind, m.value, err)
		}
		log.Printf("  ✓ Created %s: %s %s (%s)", m.kind, m.value, m.unit, created.Status)
	}
	return nil
}

func seedChat(c *client) error {
	log.Println("💬 Creating chat history...")

	messages := []struct{ sender, text string }{
		{"user", "What does an LDL of 165 mean?"},
		{"assistant", "An LDL of 165 mg/dL is considered high. Please discuss it with your doctor."},
		{"user", "Is 142/88 blood pressure normal?"},
		{"assistant", "142/88 falls in the stage 1 hypertension range. Regular monitoring is recommended."},
	}
	for _, m := range messages {
		if err := c.do(http.MethodPost, "/v1/chat/messages", map[string]string{"sender": m.sender, "text": m.text}, nil); err != nil {
			return fmt.Errorf("failed to create chat message: %w", err)
		}
	}
	log.Printf("  ✓ Created %d chat messages", len(messages))
	return nil
}

func verifySeededData(c *client) error {
	var report struct {
		Assessment struct {
			RiskScore int    `json:"riskScore"`
			RiskLevel string `json:"riskLevel"`
		} `json:"assessment"`
	}
	if err := c.do(http.MethodGet, "/v1/profile/risk", nil, &report); err != nil {
		return fmt.Errorf("profile risk: %w", err)
	}
	log.Printf("  ✓ Risk: score=%d level=%s", report.Assessment.RiskScore, report.Assessment.RiskLevel)

	var metrics struct {
		Metrics []json.RawMessage `json:"metrics"`
	}
	if err := c.do(http.MethodGet, "/v1/metrics", nil, &metrics); err != nil {
		return fmt.Errorf("list metrics: %w", err)
	}
	if len(metrics.Metrics) == 0 {
		return fmt.Errorf("no metrics returned")
	}
	log.Printf("  ✓ Metrics: %d readings", len(metrics.Metrics))

	var chat struct {
		Messages []json.RawMessage `json:"messages"`
	}
	if err := c.do(http.MethodGet, "/v1/chat/messages", nil, &chat); err != nil {
		return fmt.Errorf("list chat messages: %w", err)
	}
	log.Printf("  ✓ Chat: %d messages", len(chat.Messages))
	return nil
}
