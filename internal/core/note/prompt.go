package note

import "fmt"

// Prompt is the instruction/content pair handed to the generation call.
type Prompt struct {
	Instructions string
	Content      string
}

// soapInstructions is the fixed instruction template. It is parameterized only
// by the client name so that identical context blocks always produce
// byte-identical instructions.
const soapInstructions = `You are a clinical documentation assistant. Write a SOAP note for the client %q based strictly on the clinical record provided by the user.

Requirements:
- Produce exactly four sections, in this order, each under a Markdown heading: ## Subjective, ## Objective, ## Assessment, ## Plan.
- Use only facts present in the provided record. Do not invent symptoms, diagnoses, medications, or history.
- If the record contains no information for a section, state "No information available." under that heading.
- If the record says transcript history was truncated, note at the end of the Assessment section that earlier sessions were not reviewed.
- Write in concise, professional clinical language.`

// BuildPrompt turns an assembled context block into the generation request.
// Given the same block and name the output is byte-identical.
func BuildPrompt(block ContextBlock, clientName string) Prompt {
	return Prompt{
		Instructions: fmt.Sprintf(soapInstructions, clientName),
		Content:      block.Text(),
	}
}
