package mailer

import (
	"bytes"
	htmltemplate "html/template"
	texttemplate "text/template"
)

const (
	verificationSubject = "請驗證您的電子信箱 - 會員系統"
	resetSubject        = "重設您的密碼 - 會員系統"
)

type mailData struct {
	Username string
	Link     string
}

type mailTemplate struct {
	text *texttemplate.Template
	html *htmltemplate.Template
}

func newMailTemplate(name, text, html string) mailTemplate {
	return mailTemplate{
		text: texttemplate.Must(texttemplate.New(name).Parse(text)),
		html: htmltemplate.Must(htmltemplate.New(name).Parse(html)),
	}
}

func (t mailTemplate) render(data mailData) (string, string, error) {
	var textBuf, htmlBuf bytes.Buffer
	if err := t.text.Execute(&textBuf, data); err != nil {
		return "", "", err
	}
	if err := t.html.Execute(&htmlBuf, data); err != nil {
		return "", "", err
	}
	return textBuf.String(), htmlBuf.String(), nil
}

var verificationMail = newMailTemplate("verification", `歡迎加入會員系統！

親愛的 {{.Username}}，

感謝您註冊我們的服務。請點擊以下連結來驗證您的電子信箱：

{{.Link}}

此連結將在 24 小時後過期。

如果您沒有註冊此帳號，請忽略此郵件。
`, `<html>
<body style="font-family: 'Noto Sans TC', Arial, sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #007bff;">歡迎加入會員系統！</h2>
    <p>親愛的 {{.Username}}，</p>
    <p>感謝您註冊我們的服務。請點擊下方的按鈕來驗證您的電子信箱：</p>
    <p style="text-align: center; margin: 30px 0;"><a href="{{.Link}}" style="background-color: #007bff; color: white; padding: 12px 30px; text-decoration: none; border-radius: 5px;">驗證電子信箱</a></p>
    <p>或者複製以下連結到瀏覽器：</p>
    <p style="word-break: break-all; color: #666;">{{.Link}}</p>
    <p style="color: #999; font-size: 12px;">此連結將在 24 小時後過期。如果您沒有註冊此帳號，請忽略此郵件。</p>
  </div>
</body>
</html>`)

var resetMail = newMailTemplate("reset", `重設密碼請求

親愛的 {{.Username}}，

我們收到了您重設密碼的請求。請點擊以下連結來重設您的密碼：

{{.Link}}

此連結將在 1 小時後過期。

如果您沒有請求重設密碼，請忽略此郵件。您的密碼將不會被更改。
`, `<html>
<body style="font-family: 'Noto Sans TC', Arial, sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #dc3545;">重設密碼請求</h2>
    <p>親愛的 {{.Username}}，</p>
    <p>我們收到了您重設密碼的請求。請點擊下方的按鈕來重設您的密碼：</p>
    <p style="text-align: center; margin: 30px 0;"><a href="{{.Link}}" style="background-color: #dc3545; color: white; padding: 12px 30px; text-decoration: none; border-radius: 5px;">重設密碼</a></p>
    <p>或者複製以下連結到瀏覽器：</p>
    <p style="word-break: break-all; color: #666;">{{.Link}}</p>
    <p style="color: #999; font-size: 12px;">此連結將在 1 小時後過期。如果您沒有請求重設密碼，請忽略此郵件，您的密碼將不會被更改。</p>
  </div>
</body>
</html>`)
