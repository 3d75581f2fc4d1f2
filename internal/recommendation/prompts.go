package recommendation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"health-assistant/internal/record"
)

// PromptTemplate narrates the request. The record is embedded again after it
// as a structured block.
const PromptTemplate = `
Analyze the health data of %s, aged %s, with a Heart Rate of %s and a Blood Pressure of %s. You are a doctor who provides personalized health recommendations based on their age, Heart Rate, Blood Pressure, and Health Problems given by patients. Tell about them with what that person should take for diet, exercise, etc., to maintain the blood pressure and heart rate within range. What would be the symptoms based on their health problems and the health data, and suggest which kind of doctors to consult for the same.
%s
`

// structuredRecord fixes the key order of the structured block.
type structuredRecord struct {
	Name          string `json:"Name"`
	Age           string `json:"Age"`
	BloodPressure string `json:"Blood Pressure"`
	HeartRate     string `json:"Heart Rate"`
	HealthProblem string `json:"Health Problem"`
}

// BuildPrompt renders the prompt for rec. Health Problem is always present in
// the structured block, empty when the user gave none.
func BuildPrompt(rec record.HealthRecord) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(structuredRecord{
		Name:          rec.Name,
		Age:           rec.Age,
		BloodPressure: rec.BloodPressure,
		HeartRate:     rec.HeartRate,
		HealthProblem: rec.Problems,
	}); err != nil {
		return "", fmt.Errorf("encode record: %w", err)
	}

	block := strings.TrimSuffix(buf.String(), "\n")
	return fmt.Sprintf(PromptTemplate, rec.Name, rec.Age, rec.HeartRate, rec.BloodPressure, block), nil
}
