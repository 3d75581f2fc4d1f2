// Package record holds the health form the user fills in on every redraw.
package record

import "fmt"

// HealthRecord is the current state of the form. Values are kept exactly as typed.
type HealthRecord struct {
	Name          string `json:"name" form:"name"`
	Age           string `json:"age" form:"age"`
	BloodPressure string `json:"blood_pressure" form:"blood_pressure"`
	HeartRate     string `json:"heart_rate" form:"heart_rate"`
	Problems      string `json:"problems" form:"problems"`
}

// Field describes one input control of the form.
type Field struct {
	Key       string
	Label     string
	Multiline bool
}

// Detail is one "Label: value" line of the summary shown above the charts.
type Detail struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Fields returns the form inputs in display order.
func Fields() []Field {
	return []Field{
		{Key: "name", Label: "Enter the Name of the Person"},
		{Key: "age", Label: "Enter your Age"},
		{Key: "blood_pressure", Label: "Enter Blood Pressure"},
		{Key: "heart_rate", Label: "Enter Heart Rate"},
		{Key: "problems", Label: "Describe your Problem", Multiline: true},
	}
}

// Complete reports whether every required field is filled in.
// Problems is optional.
func (r HealthRecord) Complete() bool {
	return r.Name != "" && r.Age != "" && r.BloodPressure != "" && r.HeartRate != ""
}

// Heading is the subtitle shown above the summary.
func (r HealthRecord) Heading() string {
	return fmt.Sprintf("Health Details for %s:", r.Name)
}

// Details returns the summary lines. Health Problems is listed only when given.
func (r HealthRecord) Details() []Detail {
	details := []Detail{
		{Label: "Name", Value: r.Name},
		{Label: "Age", Value: r.Age},
		{Label: "Heart Rate", Value: r.HeartRate},
		{Label: "Blood Pressure", Value: r.BloodPressure},
	}
	if r.Problems != "" {
		details = append(details, Detail{Label: "Health Problems", Value: r.Problems})
	}
	return details
}

// Value returns the field value for a form key, or "" for an unknown key.
func (r HealthRecord) Value(key string) string {
	switch key {
	case "name":
		return r.Name
	case "age":
		return r.Age
	case "blood_pressure":
		return r.BloodPressure
	case "heart_rate":
		return r.HeartRate
	case "problems":
		return r.Problems
	}
	return ""
}

// Set assigns a field by form key. Unknown keys are ignored.
func (r *HealthRecord) Set(key, value string) {
	switch key {
	case "name":
		r.Name = value
	case "age":
		r.Age = value
	case "blood_pressure":
		r.BloodPressure = value
	case "heart_rate":
		r.HeartRate = value
	case "problems":
		r.Problems = value
	}
}
