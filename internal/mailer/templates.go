package mailer

import (
	"fmt"
	"html"
	"strings"
)

// ResetCode builds the password reset email.
func ResetCode(to, code string) Message {
	return Message{
		To:      []string{to},
		Subject: "Rekraft password reset code",
		Text: fmt.Sprintf("Your Rekraft password reset code is %s.\n\n"+
			"It expires in 10 minutes. If you did not request a reset, ignore this email.", code),
		HTML: fmt.Sprintf(`<div style="font-family:Arial,sans-serif">
<h2>Password reset</h2>
<p>Your verification code is:</p>
<p style="font-size:28px;letter-spacing:6px;font-weight:bold">%s</p>
<p>The code expires in 10 minutes. If you did not request a reset, ignore this email.</p>
</div>`, html.EscapeString(code)),
	}
}

// ContactForm holds a visitor's message.
type ContactForm struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
}

// ContactNotification is sent to the store admin.
func ContactNotification(admin string, f ContactForm) Message {
	phone := f.Phone
	if phone == "" {
		phone = "Not provided"
	}

	var text strings.Builder
	fmt.Fprintf(&text, "New contact form submission\n\n")
	fmt.Fprintf(&text, "Name: %s\nEmail: %s\nPhone: %s\nSubject: %s\n\n%s\n", f.Name, f.Email, phone, f.Subject, f.Message)

	return Message{
		To:      []string{admin},
		ReplyTo: f.Email,
		Subject: "New Contact Form: " + f.Subject,
		Text:    text.String(),
		HTML: fmt.Sprintf(`<div style="font-family:Arial,sans-serif">
<h2>New contact form submission</h2>
<p><strong>Name:</strong> %s</p>
<p><strong>Email:</strong> %s</p>
<p><strong>Phone:</strong> %s</p>
<p><strong>Subject:</strong> %s</p>
<p style="white-space:pre-wrap">%s</p>
</div>`,
			html.EscapeString(f.Name), html.EscapeString(f.Email), html.EscapeString(phone),
			html.EscapeString(f.Subject), html.EscapeString(f.Message)),
	}
}

// ContactAutoReply acknowledges the visitor's message.
func ContactAutoReply(f ContactForm) Message {
	return Message{
		To:      []string{f.Email},
		Subject: "Thank you for contacting Rekraft",
		Text: fmt.Sprintf("Hi %s,\n\nThanks for reaching out about %q. "+
			"Our team will get back to you within 24 hours.\n\nRekraft", f.Name, f.Subject),
		HTML: fmt.Sprintf(`<div style="font-family:Arial,sans-serif">
<p>Hi %s,</p>
<p>Thanks for reaching out about <em>%s</em>. Our team will get back to you within 24 hours.</p>
<p>Rekraft</p>
</div>`, html.EscapeString(f.Name), html.EscapeString(f.Subject)),
	}
}
