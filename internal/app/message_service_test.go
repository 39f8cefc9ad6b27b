package app

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gohire/internal/common"
	"gohire/internal/domain/contract"
	"gohire/internal/domain/message"
	"gohire/internal/domain/profile"
)

func activeContract(t *testing.T, f *fixture) (*profile.Profile, *profile.Profile, *contract.Contract) {
	t.Helper()
	ctx := context.Background()
	inst := f.institution(t, "Escola Azul", "(31) 3333-4444")
	prof := f.professor(t, "Nina Castro")
	j := f.job(t, inst.ID, "Professor de Biologia")
	app, err := f.applications.Apply(ctx, prof.ID, j.ID)
	require.NoError(t, err)
	c, err := f.contracts.Create(ctx, inst.ID, app.ID)
	require.NoError(t, err)
	accepted, err := f.contracts.Accept(ctx, prof.ID, c.ID)
	require.NoError(t, err)
	return inst, prof, accepted.Contract
}

func TestMessagesAreListedInSendOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	f.store.SetClock(func() time.Time { return fixed })
	inst, prof, c := activeContract(t, f)

	for i, sender := range []common.UUID{inst.ID, prof.ID, inst.ID} {
		_, err := f.messages.Send(ctx, c.ID, sender, []string{"Olá", "Oi, tudo bem?", "Vamos conversar"}[i])
		require.NoError(t, err)
	}

	items, err := f.messages.List(ctx, c.ID, prof.ID)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Olá", items[0].Content)
	assert.Equal(t, "Oi, tudo bem?", items[1].Content)
	assert.Equal(t, "Vamos conversar", items[2].Content)
	assert.Equal(t, "Escola Azul", items[0].SenderName)
	assert.Equal(t, "Nina Castro", items[1].SenderName)
	assert.Less(t, items[0].Seq, items[1].Seq)
}

func TestMessageSendValidatesAndAuthorizes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, _, c := activeContract(t, f)
	outsider := f.professor(t, "Otávio Reis")

	_, err := f.messages.Send(ctx, c.ID, c.ProfessorID, "   ")
	assert.True(t, common.Is(err, common.CodeValidation))

	_, err = f.messages.Send(ctx, c.ID, c.ProfessorID, strings.Repeat("a", maxMessageLength+1))
	assert.True(t, common.Is(err, common.CodeValidation))

	_, err = f.messages.Send(ctx, c.ID, outsider.ID, "oi")
	assert.True(t, common.Is(err, common.CodeForbidden))

	_, err = f.messages.List(ctx, c.ID, outsider.ID)
	assert.True(t, common.Is(err, common.CodeForbidden))

	_, err = f.messages.Send(ctx, common.NewUUID(), c.ProfessorID, "oi")
	assert.True(t, common.Is(err, common.CodeNotFound))
}

func TestSubscribeReceivesNewMessagesUntilStopped(t *testing.T) {
	f := newFixture(t)
	inst, prof, c := activeContract(t, f)

	stream, stop, err := f.messages.Subscribe(context.Background(), c.ID, prof.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, f.broker.Subscribers(message.Topic(c.ID)))

	sent, err := f.messages.Send(context.Background(), c.ID, inst.ID, "Bem-vinda!")
	require.NoError(t, err)

	select {
	case got := <-stream:
		assert.Equal(t, sent.ID, got.ID)
		assert.Equal(t, "Bem-vinda!", got.Content)
	case <-time.After(2 * time.Second):
		t.Fatal("message not delivered")
	}

	reconciled, err := f.messages.Reconcile(context.Background(), c.ID, prof.ID)
	require.NoError(t, err)
	require.Len(t, reconciled, 1)

	stop()
	stop()
	require.Eventually(t, func() bool { return f.broker.Subscribers(message.Topic(c.ID)) == 0 }, time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-stream:
			return !ok
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
}

func TestSubscribeEndsWithContext(t *testing.T) {
	f := newFixture(t)
	_, prof, c := activeContract(t, f)

	ctx, cancel := context.WithCancel(context.Background())
	_, _, err := f.messages.Subscribe(ctx, c.ID, prof.ID)
	require.NoError(t, err)
	cancel()

	require.Eventually(t, func() bool { return f.broker.Subscribers(message.Topic(c.ID)) == 0 }, time.Second, 10*time.Millisecond)
}
