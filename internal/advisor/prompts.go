package advisor

import (
	"fmt"
	"strings"
)

func symptomList(symptoms []string) string {
	if len(symptoms) == 0 {
		return "none"
	}
	return strings.Join(symptoms, ", ")
}

func tipsPrompt(req TipsRequest) string {
	persona := "Self-care expert for women."
	if req.Role == RolePartner {
		persona = "Empathetic support guide for a partner."
	}
	return fmt.Sprintf(
		"%s Phase: %s. Symptoms: %s. Period in %d days. "+
			"Provide exactly 3 short, helpful self-care tips as a JSON array of strings named \"tips\". "+
			"Ensure the output is valid JSON.",
		persona, req.Phase, symptomList(req.Symptoms), req.DaysRemaining,
	)
}

func chatPrompt(chat ChatContext, message string) string {
	return fmt.Sprintf(
		"You are Luna, an empathetic AI cycle guide. A partner is asking you for help.\n"+
			"CONTEXT:\n"+
			"- User's Phase: %s\n"+
			"- Symptoms: %s\n"+
			"- Days until period: %d\n"+
			"- Partner's Message: %q\n"+
			"Provide kind, practical, and non-medical advice on support. Keep it concise.",
		chat.Phase, symptomList(chat.Symptoms), chat.DaysUntilNext, strings.TrimSpace(message),
	)
}
