package gateway

import "fmt"

const (
	transcribeInstruction = "Transcribe this audio exactly as spoken."

	chatSystemInstruction = "You are a supportive, empathetic, and knowledgeable AI assistant for the 'UnMute' anti-ragging app. " +
		"Your goal is to help students feel safe, provide legal or procedural information about ragging, and encourage them to report incidents. " +
		"Be concise but warm."
)

func categorizePrompt(text string) string {
	return fmt.Sprintf(`Categorize the following ragging complaint into one word (e.g., Physical, Verbal, Cyber, Exclusion, Financial): "%s"`, text)
}

func analyzePrompt(text string) string {
	return fmt.Sprintf(`Analyze this student ragging complaint. Assess the severity, identify potential policy violations, and suggest immediate actions for the Anti-Ragging Committee. Complaint: "%s"`, text)
}

func searchPrompt(query string) string {
	return "Find up-to-date helplines, legal acts, and support resources in India regarding: " + query
}
