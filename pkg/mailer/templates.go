package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
)

const (
	VerificationSubject  = "Verify your NITConnect Account"
	PasswordResetSubject = "Reset Password - Campus Diary"
)

var verificationTmpl = template.Must(template.New("verification").Parse(`
<div style="font-family: Arial, sans-serif; padding: 20px; text-align: center;">
	<h2>Welcome to NITConnect!</h2>
	<p>Please verify your email to access all features.</p>
	<a href="{{.Link}}">Verify Email</a>
</div>
`))

var passwordResetTmpl = template.Must(template.New("password-reset").Parse(`
<div style="font-family: Arial, sans-serif; padding: 20px; max-width: 600px; margin: 0 auto; border: 1px solid #e2e8f0; border-radius: 8px;">
	<h2 style="color: #1e293b; text-align: center;">Password Reset Request</h2>
	<p style="color: #475569; font-size: 16px;">Hello {{.Name}},</p>
	<p style="color: #475569; font-size: 16px;">You requested a password reset for your NITConnect account.</p>
	<div style="text-align: center; margin: 30px 0;">
		<a href="{{.Link}}" style="background-color: #059669; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; font-weight: bold; display: inline-block;">Reset Password</a>
	</div>
	<p style="color: #64748b; font-size: 14px;">This link expires in {{.Minutes}} minutes.</p>
	<p style="color: #64748b; font-size: 14px;">If you didn't request this, please ignore this email.</p>
	<hr style="border: none; border-top: 1px solid #e2e8f0; margin: 20px 0;">
	<p style="color: #94a3b8; font-size: 12px; text-align: center;">
		Or copy and paste this link: <br>
		<a href="{{.Link}}" style="color: #059669;">{{.Link}}</a>
	</p>
</div>
`))

// VerificationEmail renders the account verification message.
func VerificationEmail(link string) (string, error) {
	if err := validateLink(link); err != nil {
		return "", err
	}
	return render(verificationTmpl, struct{ Link string }{link})
}

// PasswordResetEmail renders the reset message for name with a link valid
// for the given number of minutes.
func PasswordResetEmail(name, link string, minutes int) (string, error) {
	if err := validateLink(link); err != nil {
		return "", err
	}
	return render(passwordResetTmpl, struct {
		Name    string
		Link    string
		Minutes int
	}{name, link, minutes})
}

func render(t *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s template: %w", t.Name(), err)
	}
	return buf.String(), nil
}

// validateLink only allows http(s) links with a host.
func validateLink(link string) error {
	u, err := url.Parse(link)
	if err != nil {
		return fmt.Errorf("invalid link: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid link scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("link must have a host")
	}
	return nil
}
