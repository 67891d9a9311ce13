package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	log "github.com/sirupsen/logrus"

	"ideahub/internal/models"
)

// Mailer sends notification emails. Sends are fire and forget.
type Mailer interface {
	IdeaStatusChanged(to, name, ideaID, title string, status models.IdeaStatus, feedback string)
	CommentReplied(to, replier, ideaID, ideaTitle, reply, original string)
}

type noopMailer struct{}

func (noopMailer) IdeaStatusChanged(string, string, string, string, models.IdeaStatus, string) {}

func (noopMailer) CommentReplied(string, string, string, string, string, string) {}

type MailService struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	SiteURL  string
	Enabled  bool

	// send is smtp.SendMail outside tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewMailService(host, port, username, password, from, siteURL string) *MailService {
	enabled := host != "" && port != "" && username != "" && password != "" && from != ""
	if !enabled {
		log.Warn("MailService disabled: missing SMTP settings")
	}
	return &MailService{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		From:     from,
		SiteURL:  strings.TrimRight(siteURL, "/"),
		Enabled:  enabled,
		send:     smtp.SendMail,
	}
}

var (
	statusMailTmpl = template.Must(template.New("status").Parse(`<p>Hi {{.Name}},</p>
{{if eq .Status "APPROVED"}}<p>Good news: your idea <strong>{{.Title}}</strong> has been approved and is now public.</p>
{{else if eq .Status "REJECTED"}}<p>Your idea <strong>{{.Title}}</strong> was not approved.</p>
<p>Reviewer feedback: {{.Feedback}}</p><p>You can edit it and submit it again.</p>
{{else}}<p>Your idea <strong>{{.Title}}</strong> is now {{.Status}}.</p>{{end}}
<p><a href="{{.Link}}">View your idea</a></p>`))

	replyMailTmpl = template.Must(template.New("reply").Parse(`<p>{{.Replier}} replied to your comment on <strong>{{.Title}}</strong>:</p>
<blockquote>{{.Reply}}</blockquote>
<p>Your comment:</p>
<blockquote>{{.Original}}</blockquote>
<p><a href="{{.Link}}">Join the discussion</a></p>`))
)

func (s *MailService) IdeaStatusChanged(to, name, ideaID, title string, status models.IdeaStatus, feedback string) {
	body, err := render(statusMailTmpl, map[string]interface{}{
		"Name":     name,
		"Title":    title,
		"Status":   string(status),
		"Feedback": feedback,
		"Link":     s.SiteURL + "/ideas/" + ideaID,
	})
	if err != nil {
		log.WithError(err).Error("failed to render status email")
		return
	}
	s.sendAsync([]string{to}, fmt.Sprintf("[Idea Hub] Your idea is %s", strings.ToLower(strings.ReplaceAll(string(status), "_", " "))), body)
}

func (s *MailService) CommentReplied(to, replier, ideaID, ideaTitle, reply, original string) {
	body, err := render(replyMailTmpl, map[string]string{
		"Replier":  replier,
		"Title":    ideaTitle,
		"Reply":    reply,
		"Original": original,
		"Link":     s.SiteURL + "/ideas/" + ideaID + "#comments",
	})
	if err != nil {
		log.WithError(err).Error("failed to render reply email")
		return
	}
	s.sendAsync([]string{to}, "[Idea Hub] "+replier+" replied to your comment", body)
}

func render(t *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (s *MailService) sendAsync(to []string, subject string, body string) {
	if !s.Enabled {
		return
	}

	go func() {
		auth := smtp.PlainAuth("", s.Username, s.Password, s.Host)
		addr := fmt.Sprintf("%s:%s", s.Host, s.Port)

		mime := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"
		msg := []byte(fmt.Sprintf("To: %s\r\n"+
			"From: Idea Hub <%s>\r\n"+
			"Subject: %s\r\n"+
			"%s\r\n%s", strings.Join(to, ","), s.From, subject, mime, body))

		if err := s.send(addr, auth, s.From, to, msg); err != nil {
			log.WithError(err).WithField("to", to).Error("failed to send email")
			return
		}
		log.WithFields(log.Fields{"to": to, "subject": subject}).Info("email sent")
	}()
}
