// Package notify is the notification sink the pipelines report through.
//
// Every adapter is fire-and-forget: Notify never blocks on a slow consumer,
// never returns an error and never lets a consumer panic reach the caller.
// The pipelines only see [Notifier] and never branch on the adapter in use.
package notify

import (
	"strings"
	"sync"

	"github.com/backmassage/recmux/internal/logging"
)

// Pipeline tags that prefix every message.
const (
	TagConvert = "[flv-to-mp4]"
	TagMerge   = "[Audio-Video-Merger]"
)

// Notifier receives human-readable progress and result messages.
type Notifier interface {
	Notify(msg string)
}

// Func adapts a plain function to Notifier.
type Func func(msg string)

// Notify implements Notifier.
func (f Func) Notify(msg string) { safe(f, msg) }

// Discard drops every message.
var Discard Notifier = Func(func(string) {})

// Console prints through the logger, synchronously.
type Console struct {
	log *logging.Logger
}

// NewConsole returns a Console adapter writing INFO lines to log.
func NewConsole(log *logging.Logger) *Console {
	return &Console{log: log}
}

// Notify implements Notifier.
func (c *Console) Notify(msg string) {
	safe(func(m string) { c.log.Info("%s", m) }, msg)
}

// Prefixed returns a Notifier that prepends tag to each message.
func Prefixed(n Notifier, tag string) Notifier {
	return Func(func(msg string) { n.Notify(tag + msg) })
}

// Tee fans each message out to every notifier in order.
func Tee(ns ...Notifier) Notifier {
	return Func(func(msg string) {
		for _, n := range ns {
			n.Notify(msg)
		}
	})
}

// Collector records messages in memory.
type Collector struct {
	mu   sync.Mutex
	msgs []string
}

// Notify implements Notifier.
func (c *Collector) Notify(msg string) {
	c.mu.Lock()
	c.msgs = append(c.msgs, msg)
	c.mu.Unlock()
}

// Messages returns a copy of everything recorded so far.
func (c *Collector) Messages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.msgs...)
}

// Count returns how many messages contain substr.
func (c *Collector) Count(substr string) int {
	n := 0
	for _, m := range c.Messages() {
		if strings.Contains(m, substr) {
			n++
		}
	}
	return n
}

// safe calls fn and swallows any panic it raises.
func safe(fn func(string), msg string) {
	defer func() { _ = recover() }()
	fn(msg)
}
