package app

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gohire/internal/common"
	"gohire/internal/domain/application"
	"gohire/internal/domain/contract"
	"gohire/internal/domain/job"
)

func TestHiringFlowAcceptReturnsNotifyURL(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	inst := f.institution(t, "Colégio Horizonte", "(31) 3333-4444")
	prof := f.professor(t, "Ana Souza")
	j := f.job(t, inst.ID, "Professor de Química")

	app, err := f.applications.Apply(ctx, prof.ID, j.ID)
	require.NoError(t, err)
	assert.Equal(t, application.StatusSent, app.Status)

	candidates, err := f.applications.ListCandidates(ctx, inst.ID)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Ana Souza", candidates[0].ProfessorName)
	assert.Contains(t, candidates[0].ContactURL, "https://wa.me/5531988887777?text=")

	c, err := f.contracts.Create(ctx, inst.ID, app.ID)
	require.NoError(t, err)
	assert.Equal(t, contract.StatusPending, c.Status)
	assert.Equal(t, "Contrato para Professor de Química", c.Title)

	candidates, err = f.applications.ListCandidates(ctx, inst.ID)
	require.NoError(t, err)
	assert.Empty(t, candidates)

	result, err := f.contracts.Accept(ctx, prof.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, contract.StatusActive, result.Contract.Status)
	assert.Equal(t, "https://wa.me/553133334444?text=Ol%C3%A1%2C+Col%C3%A9gio+Horizonte%21+Estou+entrando+em+contato+para+confirmar+que+aceitei+a+proposta+para+a+vaga+de+%22Professor+de+Qu%C3%ADmica%22.+Estou+muito+animado%28a%29+para+come%C3%A7armos%21", result.NotifyURL)

	mirrored, err := f.store.Applications().GetByID(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, application.StatusAccepted, mirrored.Status)
}

func TestAcceptWithoutInstitutionPhoneHasNoNotifyURL(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	inst := f.institution(t, "Escola Sem Telefone", "")
	prof := f.professor(t, "Bruno Lima")
	j := f.job(t, inst.ID, "Professor de Artes")
	app, err := f.applications.Apply(ctx, prof.ID, j.ID)
	require.NoError(t, err)
	c, err := f.contracts.Create(ctx, inst.ID, app.ID)
	require.NoError(t, err)

	result, err := f.contracts.Accept(ctx, prof.ID, c.ID)
	require.NoError(t, err)
	assert.Empty(t, result.NotifyURL)
}

func TestDuplicateApplicationIsConflict(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	inst := f.institution(t, "Escola Azul", "")
	prof := f.professor(t, "Carla Dias")
	j := f.job(t, inst.ID, "Professor de História")

	_, err := f.applications.Apply(ctx, prof.ID, j.ID)
	require.NoError(t, err)
	_, err = f.applications.Apply(ctx, prof.ID, j.ID)
	require.Error(t, err)
	assert.True(t, common.Is(err, common.CodeConflict))

	status, err := f.applications.Status(ctx, prof.ID, j.ID)
	require.NoError(t, err)
	assert.True(t, status.Applied)
}

func TestConcurrentApplyCreatesOneApplication(t *testing.T) {
	f := newFixture(t)
	inst := f.institution(t, "Escola Azul", "")
	prof := f.professor(t, "Carla Dias")
	j := f.job(t, inst.ID, "Professor de História")

	var wg sync.WaitGroup
	var mu sync.Mutex
	created, conflicts := 0, 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.applications.Apply(context.Background(), prof.ID, j.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case common.Is(err, common.CodeConflict):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, 9, conflicts)
	items, err := f.applications.ListByProfessor(context.Background(), prof.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestApplyRequiresProfessor(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	inst := f.institution(t, "Escola Azul", "")
	j := f.job(t, inst.ID, "Professor de História")

	_, err := f.applications.Apply(ctx, inst.ID, j.ID)
	assert.True(t, common.Is(err, common.CodeForbidden))
}

func TestContractTransitionsAreProfessorOnlyAndTerminal(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	inst := f.institution(t, "Escola Azul", "")
	other := f.institution(t, "Escola Verde", "")
	prof := f.professor(t, "Davi Rocha")
	j := f.job(t, inst.ID, "Professor de Geografia")
	app, err := f.applications.Apply(ctx, prof.ID, j.ID)
	require.NoError(t, err)

	_, err = f.contracts.Create(ctx, other.ID, app.ID)
	assert.True(t, common.Is(err, common.CodeForbidden))

	c, err := f.contracts.Create(ctx, inst.ID, app.ID)
	require.NoError(t, err)
	_, err = f.contracts.Create(ctx, inst.ID, app.ID)
	assert.True(t, common.Is(err, common.CodeConflict))

	_, err = f.contracts.Accept(ctx, inst.ID, c.ID)
	assert.True(t, common.Is(err, common.CodeForbidden))

	rejected, err := f.contracts.Reject(ctx, prof.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, contract.StatusRejected, rejected.Status)

	_, err = f.contracts.Accept(ctx, prof.ID, c.ID)
	assert.True(t, common.Is(err, common.CodeValidation))

	stored, err := f.contracts.Get(ctx, inst.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, contract.StatusRejected, stored.Status)

	_, err = f.contracts.Get(ctx, other.ID, c.ID)
	assert.True(t, common.Is(err, common.CodeForbidden))
}

func TestContractListFollowsCallerRole(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	inst := f.institution(t, "Escola Azul", "")
	prof := f.professor(t, "Elisa Prado")
	j := f.job(t, inst.ID, "Professor de Inglês")
	app, err := f.applications.Apply(ctx, prof.ID, j.ID)
	require.NoError(t, err)
	_, err = f.contracts.Create(ctx, inst.ID, app.ID)
	require.NoError(t, err)

	forInstitution, err := f.contracts.List(ctx, inst.ID)
	require.NoError(t, err)
	forProfessor, err := f.contracts.List(ctx, prof.ID)
	require.NoError(t, err)
	require.Len(t, forInstitution, 1)
	require.Len(t, forProfessor, 1)
	assert.Equal(t, forInstitution[0].ID, forProfessor[0].ID)
	assert.Equal(t, "Elisa Prado", forInstitution[0].ProfessorName)
}

func TestJobOwnershipAndSearch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	inst := f.institution(t, "Escola Azul", "")
	other := f.institution(t, "Escola Verde", "")
	j := f.job(t, inst.ID, "Professor de Matemática")

	_, err := f.jobs.Update(ctx, other.ID, j.ID, JobInput{Title: "x", Description: "y", Location: "z"})
	assert.True(t, common.Is(err, common.CodeForbidden))
	assert.True(t, common.Is(f.jobs.Delete(ctx, other.ID, j.ID), common.CodeForbidden))

	_, err = f.jobs.Create(ctx, inst.ID, JobInput{Title: " "})
	var appErr *common.Error
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Fields, "title")
	assert.Contains(t, appErr.Fields, "location")

	found, err := f.jobs.Search(ctx, job.Filter{Title: "matematica", Location: "belo"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, j.ID, found[0].ID)

	for _, term := range []string{"_", "%", "matem_tica"} {
		found, err = f.jobs.Search(ctx, job.Filter{Title: term})
		require.NoError(t, err)
		assert.Empty(t, found, term)
	}

	require.NoError(t, f.jobs.Delete(ctx, inst.ID, j.ID))
	_, err = f.jobs.Get(ctx, j.ID)
	assert.True(t, common.Is(err, common.CodeNotFound))
}
