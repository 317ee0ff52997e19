// Package notify scans newly written posts and comments for registered
// keywords and tells the watchers who registered them.
package notify

import (
	"context"
	"log"
	"sync"

	"postboard/app/models"
	"postboard/app/repositories"
)

// Notifiable is content that can be scanned for keywords.
type Notifiable interface {
	NotificationText() string
}

// Notifier is told about every piece of content that was created.
type Notifier interface {
	Notify(ctx context.Context, subject Notifiable)
}

// Sink delivers one keyword match.
type Sink interface {
	Send(alert *models.KeywordAlert, text string) error
}

// SinkFunc adapts a function to Sink
type SinkFunc func(alert *models.KeywordAlert, text string) error

func (f SinkFunc) Send(alert *models.KeywordAlert, text string) error {
	return f(alert, text)
}

// LogSink writes matches to the standard logger.
var LogSink = SinkFunc(func(alert *models.KeywordAlert, _ string) error {
	log.Printf("알림: %s님이 등록한 키워드 \"%s\"가 포함되었습니다.", alert.AuthorName, alert.Keyword)
	return nil
})

// KeywordNotifier matches content against the stored keyword alerts in the
// background. Callers are never blocked and never see an error.
type KeywordNotifier struct {
	alerts repositories.AlertRepository
	sink   Sink
	wg     sync.WaitGroup
}

// NewKeywordNotifier creates a KeywordNotifier. A nil sink logs matches.
func NewKeywordNotifier(alerts repositories.AlertRepository, sink Sink) *KeywordNotifier {
	if sink == nil {
		sink = LogSink
	}
	return &KeywordNotifier{
		alerts: alerts,
		sink:   sink,
	}
}

// Notify starts a scan of subject. The scan outlives the request ctx.
func (n *KeywordNotifier) Notify(ctx context.Context, subject Notifiable) {
	if subject == nil {
		return
	}
	text := subject.NotificationText()
	ctx = context.WithoutCancel(ctx)

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Printf("notify: recovered from panic: %v", r)
			}
		}()
		n.scan(ctx, text)
	}()
}

// Wait blocks until every started scan has finished
func (n *KeywordNotifier) Wait() {
	n.wg.Wait()
}

func (n *KeywordNotifier) scan(ctx context.Context, text string) {
	if text == "" {
		return
	}

	alerts, err := n.alerts.List(ctx)
	if err != nil {
		log.Printf("notify: failed to load keyword alerts: %v", err)
		return
	}

	for _, alert := range alerts {
		if !alert.Matches(text) {
			continue
		}
		if err := n.sink.Send(alert, text); err != nil {
			log.Printf("notify: failed to deliver alert %d: %v", alert.ID, err)
		}
	}
}

// Nop ignores every notification.
type Nop struct{}

func (Nop) Notify(context.Context, Notifiable) {}
