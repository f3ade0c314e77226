package helpers

import (
	"fmt"
	"html"
	"strings"
)

func BuildSimpleHTML(title, body string) string {
	return fmt.Sprintf(`
<html>
  <body style="font-family:Arial,sans-serif; background:#f9f9f9;">
    <table width="100%%" cellpadding="0" cellspacing="0" bgcolor="#f9f9f9">
      <tr>
        <td align="center" style="padding:32px 0;">
          <table width="500" bgcolor="#fff" cellpadding="24" cellspacing="0" style="border-radius:8px; box-shadow:0 1px 6px #eee;">
            <tr>
              <td>
                <h2 style="color:#2d74da; margin-top:0;">%s</h2>
                <div style="font-size:16px; color:#222;">%s</div>
                <hr style="margin:32px 0 16px 0; border:0; border-top:1px solid #eee;">
                <div style="font-size:12px; color:#999;">This message was generated automatically. Please do not reply.</div>
              </td>
            </tr>
          </table>
        </td>
      </tr>
    </table>
  </body>
</html>
`, title, body)
}

// BuildContactHTML — письмо администратору с формы обратной связи.
// Все поля приходят от анонимного посетителя и экранируются.
func BuildContactHTML(name, email, subject, message string) string {
	body := fmt.Sprintf(`
<p><b>From:</b> %s &lt;%s&gt;</p>
<p><b>Subject:</b> %s</p>
<div style="white-space:pre-wrap; border-left:3px solid #2d74da; padding-left:12px;">%s</div>`,
		html.EscapeString(name),
		html.EscapeString(email),
		html.EscapeString(subject),
		strings.TrimSpace(html.EscapeString(message)),
	)
	return BuildSimpleHTML("New contact message", body)
}

// BuildWelcomeHTML — приветствие после регистрации.
func BuildWelcomeHTML(siteName, name string) string {
	body := fmt.Sprintf(`<p>Hello, %s!</p><p>Your account on %s is ready. You can now comment on and like articles.</p>`,
		html.EscapeString(name), html.EscapeString(siteName))
	return BuildSimpleHTML("Welcome to "+html.EscapeString(siteName), body)
}
