//go:build e2e

// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hiring-workers/internal/common/auth"
	"hiring-workers/internal/common/config"
	"hiring-workers/internal/common/database"
	"hiring-workers/internal/common/logger"
	"hiring-workers/internal/search"
	"hiring-workers/internal/store"

	gap "hiring-workers/internal/workers/applicant/get-applicant-profile"
	sap "hiring-workers/internal/workers/applicant/save-applicant-profile"
	car "hiring-workers/internal/workers/application/create-application-record"
	ga "hiring-workers/internal/workers/application/get-application"
	sa "hiring-workers/internal/workers/data-access/search-applications"
	as "hiring-workers/internal/workers/evaluation/assessment-scoring"
	fd "hiring-workers/internal/workers/evaluation/final-deliberation"
	ie "hiring-workers/internal/workers/evaluation/initial-evaluation"
	ra "hiring-workers/internal/workers/evaluation/rank-assessments"
	lrd "hiring-workers/internal/workers/reference/list-reference-data"
)

// env holds live connections to the stores configured in configs/config.yaml.
type env struct {
	cfg      *config.Config
	pg       *database.PostgresClient
	redis    *database.RedisClient
	es       *database.ElasticsearchClient
	sessions *auth.SessionStore
	log      logger.Logger
}

var live *env

func TestMain(m *testing.M) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("⚠️  skipping e2e: config: %v\n", err)
		os.Exit(0)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err == nil {
		err = pg.Ping(ctx)
	}
	if err != nil {
		fmt.Printf("⚠️  skipping e2e: postgres: %v\n", err)
		os.Exit(0)
	}
	rdb, err := database.NewRedis(cfg.Database.Redis)
	if err != nil {
		fmt.Printf("⚠️  skipping e2e: redis: %v\n", err)
		os.Exit(0)
	}
	es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	if err == nil {
		err = es.Ping(ctx)
	}
	if err != nil {
		fmt.Printf("⚠️  skipping e2e: elasticsearch: %v\n", err)
		os.Exit(0)
	}

	if _, err := store.Migrate(ctx, pg.DB); err != nil {
		panic(fmt.Sprintf("❌ migrate: %v", err))
	}
	seed, err := store.DefaultSeed()
	if err != nil {
		panic(err)
	}
	if _, err := store.Seed(ctx, pg.DB, seed); err != nil {
		panic(fmt.Sprintf("❌ seed: %v", err))
	}
	if err := es.EnsureIndex(ctx, cfg.Search.ApplicationsIndex, search.ApplicationsMapping); err != nil {
		panic(fmt.Sprintf("❌ index: %v", err))
	}

	live = &env{
		cfg:      cfg,
		pg:       pg,
		redis:    rdb,
		es:       es,
		sessions: auth.NewSessionStore(rdb.Client, cfg.Auth.Session.KeyPrefix, time.Hour),
		log:      logger.NewStructured("warn", "console"),
	}

	code := m.Run()
	pg.Close()
	rdb.Close()
	os.Exit(code)
}

// login stores a session the way the login service would and returns its token.
func login(t *testing.T, role auth.Role) string {
	t.Helper()
	token := uuid.NewString()
	require.NoError(t, live.sessions.Put(context.Background(), token, auth.Actor{
		UserID: string(role) + "-" + uuid.NewString()[:8],
		Role:   role,
	}))
	return token
}

func TestFullEvaluationPipeline(t *testing.T) {
	ctx := context.Background()
	db := live.pg.DB
	reference := store.NewCachedReference(store.New(db), live.redis.Client, time.Minute, live.log)
	index := search.NewIndex(live.es.Client, live.cfg.Search.ApplicationsIndex, store.New(db))
	wc := config.WorkerConfig{Timeout: 30000}

	admin := login(t, auth.RoleAdmin)
	applicant := login(t, auth.RoleApplicant)

	t.Log("🔍 Looking up reference data...")
	refs, err := lrd.NewHandler(lrd.LoadConfig(wc), reference, live.sessions, live.log).
		Execute(ctx, &lrd.Input{SessionToken: applicant})
	require.NoError(t, err)
	var positionID, schoolID int64
	for _, p := range refs.Positions {
		if p.Title == "Teacher I" {
			positionID = p.ID
		}
	}
	require.NotZero(t, positionID, "seeded Teacher I position")
	require.NotEmpty(t, refs.Schools)
	schoolID = refs.Schools[0].ID

	t.Log("👤 Saving applicant profile...")
	saved, err := sap.NewHandler(sap.LoadConfig(wc), db, live.sessions, live.log).
		Execute(ctx, &sap.Input{SessionToken: applicant, Profile: sap.Profile{
			Name:        "E2E Applicant " + uuid.NewString()[:6],
			Email:       "e2e@example.ph",
			Education:   "BSEd English",
			Training:    8,
			Experience:  24,
			Eligibility: "LET",
		}})
	require.NoError(t, err)
	assert.True(t, saved.Created)

	profile, err := gap.NewHandler(gap.LoadConfig(wc), db, live.sessions, live.log).
		Execute(ctx, &gap.Input{SessionToken: applicant})
	require.NoError(t, err)
	assert.Equal(t, saved.ApplicantID, profile.Profile.ID)

	t.Log("📝 Applying for the position...")
	applied, err := car.NewHandler(car.LoadConfig(wc), db, reference, live.sessions, index, live.log).
		Execute(ctx, &car.Input{SessionToken: applicant, PositionID: positionID})
	require.NoError(t, err)
	assert.Equal(t, "submitted", applied.ApplicationStatus)

	t.Log("📋 Stage 1: initial evaluation...")
	evaluated, err := ie.NewHandler(ie.LoadConfig(wc), db, live.sessions, index, live.log).
		Execute(ctx, &ie.Input{
			SessionToken:        admin,
			ApplicationID:       applied.ApplicationID,
			ApplicantEducation:  6,
			ApplicantTraining:   3,
			ApplicantExperience: 4,
			Eligibility:         "LET",
		})
	require.NoError(t, err)
	assert.Equal(t, "qualified", evaluated.Remarks)
	assert.Equal(t, "qualified", evaluated.ApplicationStatus)

	t.Log("📊 Stage 2: comparative assessment...")
	scored, err := as.NewHandler(as.LoadConfig(wc), db, reference, live.sessions, index, live.log).
		Execute(ctx, &as.Input{
			SessionToken:        admin,
			InitialEvaluationID: evaluated.InitialEvaluationID,
			SchoolID:            schoolID,
			ExamRating:          decimal.NewFromInt(8),
			ClassObservation:    decimal.NewFromInt(20),
			NonClassObservation: decimal.NewFromInt(10),
		})
	require.NoError(t, err)
	assert.Equal(t, "under_assessment", scored.ApplicationStatus)
	assert.NotEmpty(t, scored.ActualScore)

	t.Log("⚖️  Stage 3: final deliberation...")
	finalized, err := fd.NewHandler(fd.LoadConfig(wc), db, live.sessions, index, live.log).
		Execute(ctx, &fd.Input{SessionToken: admin, AssessmentScoreID: scored.AssessmentScoreID, ForAppointment: "yes"})
	require.NoError(t, err)
	assert.Equal(t, "finalized", finalized.ApplicationStatus)
	assert.Equal(t, "yes", finalized.ForBackgroundInvestigation)

	t.Log("🏁 Checking read models...")
	detail, err := ga.NewHandler(ga.LoadConfig(wc), db, live.sessions, live.log).
		Execute(ctx, &ga.Input{SessionToken: applicant, ApplicationID: applied.ApplicationID})
	require.NoError(t, err)
	assert.Equal(t, 3, detail.Stage)

	ranked, err := ra.NewHandler(ra.LoadConfig(wc), db, reference, live.sessions, live.log).
		Execute(ctx, &ra.Input{SessionToken: admin, PositionID: positionID})
	require.NoError(t, err)
	found := false
	for _, r := range ranked.Rankings {
		if r.ApplicationID == applied.ApplicationID {
			found = true
			assert.Equal(t, scored.ActualScore, r.ActualScore)
		}
	}
	assert.True(t, found, "finalized application appears in the ranking")

	// the index is refreshed on a best-effort basis after each commit
	require.Eventually(t, func() bool {
		res, err := sa.NewHandler(sa.LoadConfig(wc), index, live.sessions, live.log).
			Execute(ctx, &sa.Input{SessionToken: admin, Query: applied.ApplicantCode, Status: "finalized"})
		return err == nil && res.Total > 0
	}, 10*time.Second, 500*time.Millisecond)

	t.Log("✅ Full evaluation pipeline passed")
}

func TestStageResultsAreWrittenOnce(t *testing.T) {
	ctx := context.Background()
	db := live.pg.DB
	reference := store.NewCachedReference(store.New(db), live.redis.Client, time.Minute, live.log)
	wc := config.WorkerConfig{Timeout: 30000}

	admin := login(t, auth.RoleAdmin)
	applicant := login(t, auth.RoleApplicant)

	_, err := sap.NewHandler(sap.LoadConfig(wc), db, live.sessions, live.log).
		Execute(ctx, &sap.Input{SessionToken: applicant, Profile: sap.Profile{Name: "E2E Duplicate"}})
	require.NoError(t, err)

	positions, err := reference.ListPositions(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, positions)

	applied, err := car.NewHandler(car.LoadConfig(wc), db, reference, live.sessions, nil, live.log).
		Execute(ctx, &car.Input{SessionToken: applicant, PositionID: positions[0].ID})
	require.NoError(t, err)

	evaluate := ie.NewHandler(ie.LoadConfig(wc), db, live.sessions, nil, live.log)
	input := &ie.Input{SessionToken: admin, ApplicationID: applied.ApplicationID, Eligibility: "LET"}

	const attempts = 5
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			_, err := evaluate.Execute(ctx, input)
			errs <- err
		}()
	}

	succeeded := 0
	for i := 0; i < attempts; i++ {
		if err := <-errs; err == nil {
			succeeded++
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one concurrent initial evaluation wins")
}
