package service

import (
	"fmt"
	"strings"
)

func loginCodeEmailTemplate(code, appName string) (string, string) {
	subject := fmt.Sprintf("Your sign-in code for %s", appName)
	body := fmt.Sprintf(`Your admin sign-in code is:

%s

This code expires in 10 minutes and can only be used once.

If you didn't request this, ignore this email.

Best,
The %s Team`, code, appName)

	return subject, body
}

func newMessageEmailTemplate(reviewURL, category, riskLevel, appName string) (string, string) {
	subject := fmt.Sprintf("New %s message on %s", category, appName)
	if riskLevel == "high" {
		subject = fmt.Sprintf("URGENT: new %s message on %s", category, appName)
	}

	body := fmt.Sprintf(`A new message was submitted.

Category: %s
Risk level: %s

Review it here:
%s

The message text is encrypted and only visible in the admin console.`, category, riskLevel, reviewURL)

	return subject, body
}

func dailyVerseEmailTemplate(reference, text, unsubscribeURL, appName string) (string, string) {
	subject := fmt.Sprintf("Today's verse: %s", reference)
	body := fmt.Sprintf(`%s

%s

Sent with love by %s.

To stop receiving these, visit:
%s`, strings.TrimSpace(text), reference, appName, unsubscribeURL)

	return subject, body
}
