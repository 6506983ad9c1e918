package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mentora/internal/domain"
	"mentora/internal/infrastructure/repository"
	"mentora/internal/infrastructure/tutor"

	"github.com/google/uuid"
)

const (
	guestQuestionLimit = 3
	freeQuestionLimit  = 20
	memoryWindow       = 5
	providerTimeout    = 15 * time.Second
	historyLimit       = 20

	xpPerQuestion   = 5
	xpPerDayAdvance = 25

	reasonQuestion   = "question answered"
	reasonDayAdvance = "day completed"
)

var (
	ErrMissingFields      = errors.New("both 'question' and 'topic' are required")
	ErrGuestLimitExceeded = errors.New("guest question limit reached")
	ErrPlanLimitExceeded  = errors.New("free plan question limit reached")
)

// GuestCounter считает вопросы анонимной сессии.
type GuestCounter interface {
	Count(ctx context.Context, sessionID string) (int64, error)
	Increment(ctx context.Context, sessionID string) (int64, error)
}

// ChatUseCase — оркестратор диалога: лимиты, память, промпт,
// вызов провайдера, фолбэк, сохранение и начисления.
type ChatUseCase struct {
	profiles      *repository.ProfileRepository
	conversations *repository.ConversationRepository
	progress      *ProgressEngine
	gamification  *GamificationUseCase
	provider      tutor.Provider
	guests        GuestCounter
	guestUserID   uuid.UUID
}

func NewChatUseCase(
	profiles *repository.ProfileRepository,
	conversations *repository.ConversationRepository,
	progress *ProgressEngine,
	gamification *GamificationUseCase,
	provider tutor.Provider,
	guests GuestCounter,
	guestUserID uuid.UUID,
) *ChatUseCase {
	return &ChatUseCase{
		profiles:      profiles,
		conversations: conversations,
		progress:      progress,
		gamification:  gamification,
		provider:      provider,
		guests:        guests,
		guestUserID:   guestUserID,
	}
}

type AskInput struct {
	UserID       *uuid.UUID // nil — гость
	GuestSession string
	Topic        string
	Question     string
}

type AskResult struct {
	Answer string
	IsMock bool
}

func (uc *ChatUseCase) Ask(ctx context.Context, in AskInput) (*AskResult, error) {
	if in.Question == "" || in.Topic == "" {
		return nil, ErrMissingFields
	}

	authed := in.UserID != nil
	day := 1
	var userID uuid.UUID

	// 1. Лимиты. Проверка идет ДО инкремента: отказ ничего не меняет.
	if authed {
		userID = *in.UserID
		profile, err := uc.profiles.GetOrCreate(ctx, userID)
		if err != nil {
			return nil, err
		}
		if profile.Plan == domain.PlanFree && profile.QuestionsAsked >= freeQuestionLimit {
			return nil, ErrPlanLimitExceeded
		}
		if err := uc.profiles.IncrementQuestionsAsked(ctx, userID); err != nil {
			return nil, err
		}

		progress, err := uc.progress.Current(ctx, userID, in.Topic)
		if err != nil {
			return nil, err
		}
		day = progress.CurrentDay
	} else {
		count, err := uc.guests.Count(ctx, in.GuestSession)
		if err != nil {
			return nil, err
		}
		if count >= guestQuestionLimit {
			return nil, ErrGuestLimitExceeded
		}
		if _, err := uc.guests.Increment(ctx, in.GuestSession); err != nil {
			return nil, err
		}
		// Гостевые диалоги копятся под общим теневым пользователем
		userID = uc.guestUserID
	}

	// 2. Окно памяти: последние обмены текущего дня, старые впереди
	var dayFilter *int
	if authed {
		dayFilter = &day
	}
	recent, err := uc.conversations.Recent(ctx, userID, in.Topic, dayFilter, memoryWindow)
	if err != nil {
		return nil, err
	}

	messages := make([]tutor.Message, 0, 2*len(recent)+2)
	messages = append(messages, tutor.Message{Role: "system", Content: systemPrompt(in.Topic, day, authed)})
	for i := len(recent) - 1; i >= 0; i-- {
		messages = append(messages,
			tutor.Message{Role: "user", Content: recent[i].Question},
			tutor.Message{Role: "assistant", Content: recent[i].Answer},
		)
	}
	messages = append(messages, tutor.Message{Role: "user", Content: in.Question})

	// 3. Провайдер с жестким таймаутом
	callCtx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	answer, err := uc.provider.Chat(callCtx, messages)
	isMock := false
	if err != nil {
		fallback, ok := mockAnswer(err, in.Question)
		if !ok {
			return nil, err
		}
		answer = fallback
		isMock = true
	}

	// 4. Машина состояний дня. Моковые ответы тоже двигают счетчик,
	// но маркеров не содержат. Гостю день не ведем, только чистим текст.
	clean := answer
	advanced := false
	if authed {
		clean, advanced, day, err = uc.progress.ApplyAnswer(ctx, userID, in.Topic, answer)
		if err != nil {
			return nil, err
		}
	} else {
		clean, _ = StripMarkers(answer)
	}

	if err := uc.conversations.Create(ctx, &domain.Conversation{
		ID:        uuid.New(),
		UserID:    userID,
		Topic:     in.Topic,
		Question:  in.Question,
		Answer:    clean,
		DayNumber: day,
	}); err != nil {
		return nil, err
	}

	// 5. Начисления только зарегистрированным
	if authed {
		if err := uc.gamification.GrantXP(ctx, userID, xpPerQuestion, reasonQuestion); err != nil {
			return nil, err
		}
		if advanced {
			if err := uc.gamification.GrantXP(ctx, userID, xpPerDayAdvance, reasonDayAdvance); err != nil {
				return nil, err
			}
		}
	}

	return &AskResult{Answer: clean, IsMock: isMock}, nil
}

// History отдает последние диалоги пользователя. Гостю история
// не принадлежит — возвращаем пустой список, а не чужие записи.
func (uc *ChatUseCase) History(ctx context.Context, userID *uuid.UUID, topic string, day *int) ([]domain.Conversation, error) {
	if userID == nil {
		return []domain.Conversation{}, nil
	}
	return uc.conversations.History(ctx, *userID, topic, day, historyLimit)
}

func (uc *ChatUseCase) DeleteConversation(ctx context.Context, userID, id uuid.UUID) error {
	return uc.conversations.DeleteOwned(ctx, userID, id)
}

func (uc *ChatUseCase) SubjectDays(ctx context.Context, userID *uuid.UUID, subject string) ([]DayStatus, error) {
	return uc.progress.SubjectDays(ctx, userID, subject)
}

// systemPrompt собирает персону учителя, тему дня и протокол маркеров.
func systemPrompt(topic string, day int, authed bool) string {
	base := fmt.Sprintf(
		"You are Mentora, a friendly and patient AI tutor for children. "+
			"You are teaching %s. Today is day %d of the course, the chapter is %q. "+
			"Explain things simply, with short sentences and vivid examples a child can picture. "+
			"Stay on today's chapter and gently steer the conversation back if it drifts. "+
			"Never use profanity or scary content.",
		topic, day, ChapterFor(topic, day),
	)
	if !authed {
		return base
	}
	return base + fmt.Sprintf(
		" When you feel the student has understood today's chapter, append the marker %s "+
			"at the very end of your reply. If the student explicitly asks to move on to the "+
			"next chapter, append %s instead. Use the markers only at the end and never mention them.",
		DayCompleteMarker, NextChapterMarker,
	)
}

// mockAnswer подбирает заглушку по классу ошибки провайдера.
// Невосстановимые ошибки (сеть, кривой JSON) отдаются наверх как есть.
func mockAnswer(err error, question string) (string, bool) {
	switch {
	case errors.Is(err, tutor.ErrNoProviders), errors.Is(err, tutor.ErrExhausted):
		return fmt.Sprintf(
			"(Mock Mode) That's a great question about %q! I'm running in offline mode right now, "+
				"but here is how I'd think about it: break the question into small parts, "+
				"look at each one, and ask what you already know. We'll dig deeper together soon!",
			question,
		), true
	case errors.Is(err, tutor.ErrQuotaExceeded):
		return "I'm sorry, I've been thinking so hard today that I need a little rest! " +
			"Please ask me again in a few minutes.", true
	case errors.Is(err, tutor.ErrTimeout):
		return "I'm sorry, that question made me think for too long! " +
			"Could you try asking it again, maybe in a simpler way?", true
	}
	return "", false
}
