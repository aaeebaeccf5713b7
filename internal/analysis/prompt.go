package analysis

import "fmt"

const analysisSchema = `{
  "summary": "Brief summary of findings",
  "keyMetrics": [
    {"name": "Test Name", "value": "Exact value with units", "status": "normal/abnormal/borderline/good"}
  ],
  "riskFactors": ["List of identified risks"],
  "recommendations": ["List of specific recommendations"],
  "urgency": "low/medium/high/critical"
}`

// SystemPrompt sets the assistant persona and the required output shape.
func SystemPrompt() string {
	return `You are CardiagnoAI, a medical AI assistant specialized in analyzing cardiovascular health reports. You will receive text extracted from a medical report. Extract and analyze medical data accurately.

Respond with one valid JSON object only (no markdown, no commentary, no code fences) in this exact format:
` + analysisSchema
}

// TextPrompt wraps OCR output as the user turn.
func TextPrompt(extracted string) string {
	return fmt.Sprintf(`Please analyze this medical report text extracted from an image:

%q

Focus on cardiovascular metrics like blood pressure, cholesterol, heart rate, ECG findings and blood sugar. Extract exact values and determine if they're normal, abnormal, or borderline based on standard medical ranges.`, extracted)
}

// ImagePrompt is the user turn accompanying a report image.
func ImagePrompt() string {
	return `Analyze this medical report image carefully. Read all visible text and medical data, then summarize the findings, list key metrics with exact values and status, identify risk factors, give specific recommendations and an urgency level.

Respond ONLY with valid JSON in this exact format:
` + analysisSchema + `

Focus on cardiovascular metrics: blood pressure, cholesterol, heart rate, ECG, blood sugar.`
}
