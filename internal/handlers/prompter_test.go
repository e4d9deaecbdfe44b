package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blondy007/Impostor/internal/words"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestPrompterAnswerResolvesDecision(t *testing.T) {
	p := NewHTTPPrompter(quietLogger())

	done := make(chan words.Choice, 1)
	go func() {
		choice, err := p.PresentDecision(context.Background(), "No words left", "Generate?", "Yes", "No")
		require.NoError(t, err)
		done <- choice
	}()

	// Wait for the decision to be published.
	var pending *PendingDecision
	require.Eventually(t, func() bool {
		pending = p.Pending()
		return pending != nil
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, "No words left", pending.Title)

	require.NoError(t, p.Answer(pending.ID, words.ChoicePrimary))
	select {
	case choice := <-done:
		assert.Equal(t, words.ChoicePrimary, choice)
	case <-time.After(time.Second):
		t.Fatal("decision never resolved")
	}
	assert.Nil(t, p.Pending())
}

func TestPrompterExpiredContextCountsAsDecline(t *testing.T) {
	p := NewHTTPPrompter(quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	choice, err := p.PresentDecision(ctx, "t", "m", "a", "b")
	assert.Error(t, err)
	assert.Equal(t, words.ChoiceSecondary, choice)
}

func TestPrompterRejectsStaleAnswer(t *testing.T) {
	p := NewHTTPPrompter(quietLogger())
	assert.Error(t, p.Answer(uuid.New(), words.ChoicePrimary), "an answer without a pending decision must fail")
}

func TestPrompterNoticesDrainOnce(t *testing.T) {
	p := NewHTTPPrompter(quietLogger())
	p.PresentInfo(context.Background(), "AI generation failed", "Try another difficulty.")
	p.PresentInfo(context.Background(), "No word available", "Pool exhausted.")

	notices := p.DrainNotices()
	require.Len(t, notices, 2)
	assert.Equal(t, "AI generation failed", notices[0].Title)
	assert.Empty(t, p.DrainNotices())
}
