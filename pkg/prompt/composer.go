package prompt

import (
	"strings"

	"github.com/dskvich/claim-analyzer/pkg/domain"
)

const DefaultSystemPrompt = `You are a diligent insurance claim settlement expert.

You will be given:
1. The insurance **Policy Wording** text, which outlines what is covered and not covered.
2. A **Discharge Summary or Hospital Bill**, which lists the medical procedures, diagnoses, and charges.

Your job is to:
- Carefully match the charges from the hospital document with what's covered in the policy.
- Calculate what portion of the total bill is **approved for settlement** based on the policy.
- Clearly summarize the **approved items**, **rejected items** (and why), and the **final approved amount**.

Be strict but fair and include all rationale used for decision-making.`

const (
	sectionDelimiter = "---"
	closingDirective = "Based on these documents, perform the insurance claim analysis as per the instructions."
)

// Compose builds the system instruction and the user message for one analysis run.
// A blank custom instruction selects DefaultSystemPrompt.
func Compose(custom, policyText, billText string) domain.PromptSet {
	return domain.PromptSet{
		System: SystemPrompt(custom),
		User:   UserMessage(policyText, billText),
	}
}

func SystemPrompt(custom string) string {
	if trimmed := strings.TrimSpace(custom); trimmed != "" {
		return trimmed
	}
	return DefaultSystemPrompt
}

func UserMessage(policyText, billText string) string {
	var sb strings.Builder

	sb.WriteString("Below are two documents.\n\n")
	sb.WriteString(sectionDelimiter + "\n\n")
	writeSection(&sb, domain.DocumentPolicy, policyText)
	writeSection(&sb, domain.DocumentBill, billText)
	sb.WriteString(closingDirective + "\n")

	return sb.String()
}

func writeSection(sb *strings.Builder, kind domain.DocumentKind, text string) {
	heading := "Insurance Policy Wording"
	if kind == domain.DocumentBill {
		heading = "Discharge Summary / Hospital Bill"
	}

	sb.WriteString("**" + heading + ":**\n\n")
	sb.WriteString(text)
	sb.WriteString("\n\n" + sectionDelimiter + "\n\n")
}
