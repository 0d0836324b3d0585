package httpx

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/attractions-admin/internal/domain/model"
	apperrors "github.com/target/attractions-admin/internal/errors"
	"github.com/target/attractions-admin/internal/mocks"
	"github.com/target/attractions-admin/internal/service"
	"go.uber.org/mock/gomock"
)

func newAttractionEnv(t *testing.T) (*testEnv, *mocks.MockAttractionBackend) {
	t.Helper()
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockAttractionBackend(ctrl)
	env := newTestEnv(t, withAttractions(service.NewAttractionService(service.AttractionServiceOptions{Backend: backend})))
	return env, backend
}

var rhineFalls = model.Attraction{
	ID:               "5",
	Name:             "Rhine Falls",
	Latitude:         47.6779,
	Longitude:        8.6153,
	ShortDescription: "Largest plain waterfall in Europe",
	CoverImage:       "https://img/rhine.jpg",
	Canton:           "Schaffhausen",
}

func TestAttractionHandlers_Get(t *testing.T) {
	env, backend := newAttractionEnv(t)
	env.signIn(t, testUser)

	backend.EXPECT().GetAttraction(gomock.Any(), "5").Return(rhineFalls, nil)
	backend.EXPECT().GetAttraction(gomock.Any(), "6").Return(model.Attraction{}, apperrors.NotFoundf("attraction 6 not found"))

	rec := env.do(t, request{Path: "/api/attractions/5"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, rhineFalls, decodeJSON[model.Attraction](t, rec))

	rec = env.do(t, request{Path: "/api/attractions/6"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAttractionHandlers_RequireSession(t *testing.T) {
	env, _ := newAttractionEnv(t)

	rec := env.do(t, request{Path: "/api/attractions/5"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAttractionHandlers_Create(t *testing.T) {
	env, backend := newAttractionEnv(t)
	env.signIn(t, testUser)

	backend.EXPECT().CreateAttraction(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, a model.Attraction) (model.Attraction, error) {
			assert.Empty(t, a.ID)
			assert.Equal(t, "Schaffhausen", a.Canton)
			a.ID = "5"
			return a, nil
		})

	body := `{"name":"Rhine Falls","latitude":47.6779,"longitude":8.6153,` +
		`"shortDescription":"Largest plain waterfall in Europe","coverImage":"https://img/rhine.jpg","cantonName":"Schaffhausen"}`
	rec := env.do(t, request{Method: http.MethodPost, Path: "/api/attractions", Body: body})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, rhineFalls, decodeJSON[model.Attraction](t, rec))

	rec = env.do(t, request{Method: http.MethodPost, Path: "/api/attractions", Body: `{"name":"","cantonName":"Bern"}`})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "name", decodeErrorBody(t, rec).Field)
}

func TestAttractionHandlers_UpdateCantonChangeNeedsNewCoordinates(t *testing.T) {
	env, backend := newAttractionEnv(t)
	env.signIn(t, testUser)

	backend.EXPECT().GetAttraction(gomock.Any(), "5").Return(rhineFalls, nil)

	body := `{"name":"Rhine Falls","latitude":47.6779,"longitude":8.6153,` +
		`"shortDescription":"Largest plain waterfall in Europe","coverImage":"https://img/rhine.jpg","cantonName":"Zürich"}`
	rec := env.do(t, request{Method: http.MethodPut, Path: "/api/attractions/5", Body: body})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "latitude", decodeErrorBody(t, rec).Field)
}
