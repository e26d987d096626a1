package service

import (
	"fmt"
	"strings"

	"github.com/tessadair/bloom/internal/earnings"
	"github.com/tessadair/bloom/internal/model"
	"github.com/tessadair/bloom/internal/reflection"
)

// ReflectionInput is the caller-supplied shape for a written reflection.
type ReflectionInput struct {
	Type    string
	Prompt  string
	Content string
}

// RecordReflection saves a written reflection and pays half a cent per word.
// A reflection that earns nothing is still saved, but no ledger entry is
// appended and no streak activity is registered for it.
func (s *Service) RecordReflection(userID int64, in ReflectionInput) (*model.Reflection, error) {
	in.Content = strings.TrimSpace(in.Content)
	if in.Content == "" {
		return nil, invalidInput("write something before saving")
	}

	typ := in.Type
	if typ == "" {
		typ = model.ReflectionFreewrite
	}
	if typ != model.ReflectionFreewrite && typ != model.ReflectionPrompted {
		return nil, invalidInput("unknown reflection type %q", typ)
	}
	var prompt *string
	if p := strings.TrimSpace(in.Prompt); p != "" {
		prompt = &p
	}

	words := earnings.CountWords(in.Content)
	earned := earnings.ForWordCount(words)

	return s.saveReflection(userID, typ, prompt, nil, in.Content, words, earned)
}

// RecordMoodCheckin saves a mood check-in, which pays a fixed amount
// regardless of word count.
func (s *Service) RecordMoodCheckin(userID int64, mood string) (*model.Reflection, error) {
	mood = strings.TrimSpace(mood)
	if !reflection.ValidMood(mood) {
		return nil, invalidInput("unknown mood %q", mood)
	}

	return s.saveReflection(userID, model.ReflectionMood, nil, &mood, "", 0, earnings.MoodCheckinReward)
}

func (s *Service) saveReflection(userID int64, typ string, prompt, mood *string, content string, words, earned int) (*model.Reflection, error) {
	u, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	r, err := s.reflections.WithTx(tx).Create(userID, typ, prompt, mood, content, words, earned)
	if err != nil {
		return nil, err
	}

	if earned > 0 {
		if _, err := s.ledger.WithTx(tx).Append(userID, earned, model.SourceReflection, &r.ID); err != nil {
			return nil, err
		}
		if err := s.registerActivity(tx, userID, u.Timezone); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit reflection: %w", err)
	}

	s.logger.Info("reflection recorded", "reflection_id", r.ID, "user_id", userID, "type", typ, "earned", earned)
	return r, nil
}

// ListReflections returns the user's reflections, newest first.
func (s *Service) ListReflections(userID int64) ([]model.Reflection, error) {
	return s.reflections.ListByUser(userID)
}
