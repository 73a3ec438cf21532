// Package mailer renders the daily bulletin and delivers it over SMTP,
// one independent send per recipient.
package mailer

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/Alonhaliva/ISV-Newsletter-silicon-wadi-bot/internal/daily"
	"github.com/Alonhaliva/ISV-Newsletter-silicon-wadi-bot/internal/feed"
	"github.com/Alonhaliva/ISV-Newsletter-silicon-wadi-bot/internal/stocks"
	"gopkg.in/gomail.v2"
)

//go:embed bulletin.html.tmpl
var templateFS embed.FS

// Message is one rendered bulletin ready to transmit.
type Message struct {
	Subject string
	HTML    string
}

// Dispatcher transmits one message to one recipient. Implementations
// report failure per recipient; the caller decides how to continue.
type Dispatcher interface {
	Send(recipient string, msg Message) error
}

// Bulletin is the render input for one cycle.
type Bulletin struct {
	Date      time.Time
	Articles  []feed.Article
	Quotes    []stocks.Quote
	Hook      daily.Hook
	Slang     daily.Slang
	Spotlight daily.Spotlight
}

type articleView struct {
	Source       string
	Title        string
	Link         string
	Body         template.HTML
	WhyItMatters string
}

type bulletinView struct {
	Brand     string
	DateLabel string
	Hook      daily.Hook
	Slang     daily.Slang
	Spotlight daily.Spotlight
	Articles  []articleView
	Quotes    []stocks.Quote
}

// Render produces the subject line and HTML body for one bulletin.
func Render(b Bulletin) (Message, error) {
	tmpl, err := template.ParseFS(templateFS, "bulletin.html.tmpl")
	if err != nil {
		return Message{}, fmt.Errorf("parsing bulletin template: %w", err)
	}

	view := bulletinView{
		Brand:     "Silicon Wadi Dispatch",
		DateLabel: b.Date.Format("Monday, January 2, 2006"),
		Hook:      b.Hook,
		Slang:     b.Slang,
		Spotlight: b.Spotlight,
		Quotes:    b.Quotes,
	}
	for _, a := range b.Articles {
		view.Articles = append(view.Articles, articleView{
			Source:       a.Source,
			Title:        a.Title,
			Link:         a.Link,
			Body:         formatSnippet(a.Snippet),
			WhyItMatters: whyItMatters(a.Title),
		})
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, view); err != nil {
		return Message{}, fmt.Errorf("rendering bulletin: %w", err)
	}

	return Message{
		Subject: Subject(b.Articles, b.Date),
		HTML:    buf.String(),
	}, nil
}

var subjectEmojis = []string{"🚀", "💰", "🔥", "💻", "💡", "🛡️", "⚡", "📊"}

// Subject builds the dynamic subject from the first three headlines,
// each cut at its first colon and tagged with a rotating emoji.
func Subject(articles []feed.Article, date time.Time) string {
	if len(articles) == 0 {
		return "⚡ The IL-SV Bridge - " + date.Format("Monday, January 2, 2006")
	}

	n := len(articles)
	if n > 3 {
		n = 3
	}
	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		head, _, _ := strings.Cut(articles[i].Title, ":")
		parts = append(parts, strings.TrimSpace(head)+" "+subjectEmojis[i%len(subjectEmojis)])
	}
	return "⚡ " + strings.Join(parts, ", ")
}

// formatSnippet strips leftover markup and bolds the first sentence.
func formatSnippet(text string) template.HTML {
	clean := strings.TrimSpace(stripHTML(text))
	if clean == "" {
		return ""
	}
	sentences := strings.Split(clean, ". ")
	sentences[0] = "<strong>" + template.HTMLEscapeString(sentences[0]) + "</strong>"
	for i := 1; i < len(sentences); i++ {
		sentences[i] = template.HTMLEscapeString(sentences[i])
	}
	return template.HTML(strings.Join(sentences, ". "))
}

// whyItMatters maps headline keywords to a one-line editorial blurb.
func whyItMatters(title string) string {
	lower := strings.ToLower(title)
	switch {
	case strings.Contains(lower, "raised") || strings.Contains(lower, "fund") || strings.Contains(lower, "round"):
		return "Capital is fuel. Even in tough times, these rounds show that VCs are still betting big on the 'Startup Nation' engine."
	case strings.Contains(lower, "acquired") || strings.Contains(lower, "acquisition") || strings.Contains(lower, "exit"):
		return "Exits are the proof of the pudding. This shows that Israeli innovation is still a top target for global expansion."
	case strings.Contains(lower, "ai") || strings.Contains(lower, "artificial intelligence"):
		return "We're not just users; we're builders. Israel's AI shift is moving from 'hype' to 'heavy-duty' infrastructure."
	default:
		return "This isn't just news; it's a trend. It shows the ecosystem adapting and finding new ways to scale in a global market."
	}
}

func stripHTML(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// SMTPDispatcher sends bulletins through a standard SMTP submission
// port, typically Gmail's.
type SMTPDispatcher struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
}

func NewSMTP(host string, port int, user, pass, fromName string) *SMTPDispatcher {
	return &SMTPDispatcher{
		dialer:   gomail.NewDialer(host, port, user, pass),
		from:     user,
		fromName: fromName,
	}
}

func (d *SMTPDispatcher) Send(recipient string, msg Message) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", d.from, d.fromName)
	m.SetHeader("To", recipient)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)

	if err := d.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("sending to %s: %w", recipient, err)
	}
	return nil
}
