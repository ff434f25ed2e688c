package reminder

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/petalmart/storefront/internal/log"
	"github.com/petalmart/storefront/internal/notify"
	"github.com/petalmart/storefront/internal/otel"
	"github.com/petalmart/storefront/internal/store"
)

type Reminder struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Datetime time.Time `json:"datetime"`
	Channels []string  `json:"channels"`
	Notified bool      `json:"notified"`
}

// scopesKey indexes which scopes hold reminders so the scheduler knows
// what to scan.
const scopesKey = "reminders:index"

// ReminderService persists reminders per identity scope with the same
// degrade-gracefully discipline as the cart and the order ledger.
type ReminderService struct {
	kv       store.Store
	notifier notify.Notifier
	now      func() time.Time
}

func NewReminderService(kv store.Store, notifier notify.Notifier) *ReminderService {
	return &ReminderService{kv: kv, notifier: notifier, now: time.Now}
}

func (s *ReminderService) Add(
	c context.Context,
	scope string,
	title string,
	datetime time.Time,
	channels []string,
) Reminder {
	c, span := otel.Tracer.Start(c, "ReminderService Add")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ReminderService Add").
		Str(log.KeyScope, scope).
		Logger()

	reminder := Reminder{
		ID:       uuid.NewString(),
		Title:    title,
		Datetime: datetime,
		Channels: channels,
	}

	reminders := append(s.Reminders(c, scope), reminder)
	s.persist(c, scope, reminders)
	s.indexScope(c, scope)

	logger.Info().Str(log.KeyReminderID, reminder.ID).Msg("added reminder")
	return reminder
}

func (s *ReminderService) Reminders(c context.Context, scope string) []Reminder {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ReminderService Reminders").
		Str(log.KeyStorageKey, store.RemindersKey(scope)).
		Logger()

	value, ok := s.kv.Get(c, store.RemindersKey(scope))
	if !ok {
		return []Reminder{}
	}

	reminders := []Reminder{}
	if err := json.Unmarshal([]byte(value), &reminders); err != nil {
		logger.Warn().Err(err).Msg("stored reminders are corrupt, treating as empty")
		return []Reminder{}
	}
	return reminders
}

func (s *ReminderService) Remove(c context.Context, scope string, reminderID string) {
	c, span := otel.Tracer.Start(c, "ReminderService Remove")
	defer span.End()

	reminders := s.Reminders(c, scope)
	kept := reminders[:0]
	for _, reminder := range reminders {
		if reminder.ID == reminderID {
			continue
		}
		kept = append(kept, reminder)
	}
	s.persist(c, scope, kept)
}

// CheckDue emits a notification for every due, un-notified reminder and
// marks it notified. Returns how many fired.
func (s *ReminderService) CheckDue(c context.Context, scope string) int {
	c, span := otel.Tracer.Start(c, "ReminderService CheckDue")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ReminderService CheckDue").
		Str(log.KeyScope, scope).
		Logger()

	now := s.now()
	reminders := s.Reminders(c, scope)
	fired := 0
	for i, reminder := range reminders {
		if reminder.Notified || reminder.Datetime.After(now) {
			continue
		}
		s.notifier.Notify(
			c,
			fmt.Sprintf("reminder due: %s", reminder.Title),
			notify.KindInfo,
		)
		reminders[i].Notified = true
		fired++
	}
	if fired > 0 {
		s.persist(c, scope, reminders)
		logger.Info().Int("fired", fired).Msg("fired due reminders")
	}
	return fired
}

func (s *ReminderService) persist(c context.Context, scope string, reminders []Reminder) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ReminderService persist").
		Str(log.KeyStorageKey, store.RemindersKey(scope)).
		Logger()

	value, err := json.Marshal(reminders)
	if err != nil {
		logger.Warn().Err(err).Msg("failed marshaling reminders, dropping write")
		return
	}
	s.kv.Set(c, store.RemindersKey(scope), string(value))
}

func (s *ReminderService) indexScope(c context.Context, scope string) {
	scopes := s.indexedScopes(c)
	for _, known := range scopes {
		if known == scope {
			return
		}
	}
	scopes = append(scopes, scope)
	value, err := json.Marshal(scopes)
	if err != nil {
		return
	}
	s.kv.Set(c, scopesKey, string(value))
}

func (s *ReminderService) indexedScopes(c context.Context) []string {
	value, ok := s.kv.Get(c, scopesKey)
	if !ok {
		return []string{}
	}
	scopes := []string{}
	if err := json.Unmarshal([]byte(value), &scopes); err != nil {
		return []string{}
	}
	return scopes
}
