package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"testing"

	"berbook/internal/models"

	"github.com/stretchr/testify/require"
)

//// In-memory fakes

type fakeStore struct {
	mu sync.Mutex

	users       map[string]models.User
	clients     map[string]models.Client
	accessors   map[string]models.Accessor
	quotes      map[string]models.Quote
	jobs        map[string]models.Job
	projects    map[string]models.Project
	assessments map[string]models.Assessment

	bids     map[string]models.Bid
	bidOrder []string

	notifications []models.Notification
	payments      []models.Payment

	seq int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:       make(map[string]models.User),
		clients:     make(map[string]models.Client),
		accessors:   make(map[string]models.Accessor),
		quotes:      make(map[string]models.Quote),
		jobs:        make(map[string]models.Job),
		projects:    make(map[string]models.Project),
		assessments: make(map[string]models.Assessment),
		bids:        make(map[string]models.Bid),
	}
}

func (f *fakeStore) nextId(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

func (f *fakeStore) UserByID(ctx context.Context, id string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return user, sql.ErrNoRows
	}
	return user, nil
}

func (f *fakeStore) ClientByID(ctx context.Context, id string) (models.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	client, ok := f.clients[id]
	if !ok {
		return client, sql.ErrNoRows
	}
	return client, nil
}

func (f *fakeStore) AccessorByID(ctx context.Context, id string) (models.Accessor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	accessor, ok := f.accessors[id]
	if !ok {
		return accessor, sql.ErrNoRows
	}
	return accessor, nil
}

func (f *fakeStore) EnsureClient(ctx context.Context, name, email, phone string) (models.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, client := range f.clients {
		if client.Email == email {
			return client, nil
		}
	}
	user := models.User{Id: f.nextId("user"), Email: email, Kind: models.KindClient}
	f.users[user.Id] = user
	client := models.Client{Id: f.nextId("client"), UserId: user.Id, Email: email, Phone: phone}
	f.clients[client.Id] = client
	return client, nil
}

func (f *fakeStore) CountAccessors(ctx context.Context) (int, error) {
	return len(f.accessors), nil
}

func (f *fakeStore) CountClients(ctx context.Context) (int, error) {
	return len(f.clients), nil
}

func (f *fakeStore) CountPendingJobs(ctx context.Context) (int, error) {
	n := 0
	for _, job := range f.jobs {
		if job.Status == models.WorkPending {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) AddQuote(ctx context.Context) (models.Quote, models.Assessment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	quote := models.Quote{Id: f.nextId("quote"), Status: models.WorkPending}
	f.quotes[quote.Id] = quote
	quoteId := quote.Id
	assessment := models.Assessment{Id: f.nextId("assessment"), QuoteId: &quoteId}
	f.assessments[assessment.Id] = assessment
	return quote, assessment, nil
}

func (f *fakeStore) QuoteByID(ctx context.Context, id string) (models.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	quote, ok := f.quotes[id]
	if !ok {
		return quote, sql.ErrNoRows
	}
	return quote, nil
}

func (f *fakeStore) UpdateQuote(ctx context.Context, quote models.Quote) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.quotes[quote.Id] = quote
	return nil
}

func (f *fakeStore) PendingQuotesByCounty(ctx context.Context, county string) ([]models.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var quotes []models.Quote
	for _, quote := range f.quotes {
		if quote.Status == models.WorkPending && quote.County == county {
			quotes = append(quotes, quote)
		}
	}
	return quotes, nil
}

func (f *fakeStore) AddJob(ctx context.Context, clientId string) (models.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	job := models.Job{Id: f.nextId("job"), ClientId: clientId, Status: models.WorkPending}
	f.jobs[job.Id] = job
	return job, nil
}

func (f *fakeStore) JobByID(ctx context.Context, id string) (models.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[id]
	if !ok {
		return job, sql.ErrNoRows
	}
	return job, nil
}

func (f *fakeStore) UpdateJob(ctx context.Context, job models.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs[job.Id] = job
	return nil
}

func (f *fakeStore) JobsByClient(ctx context.Context, clientId string) ([]models.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var jobs []models.Job
	for _, job := range f.jobs {
		if job.ClientId == clientId {
			jobs = append(jobs, job)
		}
	}
	return jobs, nil
}

func (f *fakeStore) PendingJobsByCounty(ctx context.Context, county string) ([]models.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var jobs []models.Job
	for _, job := range f.jobs {
		if job.Status == models.WorkPending && job.County == county {
			jobs = append(jobs, job)
		}
	}
	return jobs, nil
}

func (f *fakeStore) SearchJobs(ctx context.Context, filter models.JobFilter) ([]models.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var jobs []models.Job
	for _, job := range f.jobs {
		if len(filter.County) > 0 && job.County != filter.County {
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func (f *fakeStore) UpsertJobFromQuote(ctx context.Context, clientId string, quote models.Quote) (models.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, job := range f.jobs {
		if job.QuoteId != nil && *job.QuoteId == quote.Id {
			job.ClientId = clientId
			job.County = quote.County
			job.Status = models.WorkPending
			f.jobs[job.Id] = job
			return job, nil
		}
	}
	quoteId := quote.Id
	job := models.Job{
		Id:       f.nextId("job"),
		ClientId: clientId,
		QuoteId:  &quoteId,
		Status:   models.WorkPending,
		County:   quote.County,
	}
	f.jobs[job.Id] = job
	return job, nil
}

func (f *fakeStore) WorkSummaries(ctx context.Context) ([]models.WorkSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var summaries []models.WorkSummary
	for _, job := range f.jobs {
		summaries = append(summaries, models.WorkSummary{Id: job.Id, Kind: "job", Status: job.Status})
	}
	for _, quote := range f.quotes {
		summaries = append(summaries, models.WorkSummary{Id: quote.Id, Kind: "quote", Status: quote.Status})
	}
	return summaries, nil
}

func (f *fakeStore) AddBid(ctx context.Context, bid models.Bid) (models.Bid, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	bid.Id = f.nextId("bid")
	f.bids[bid.Id] = bid
	f.bidOrder = append(f.bidOrder, bid.Id)
	return bid, nil
}

func (f *fakeStore) BidByID(ctx context.Context, id string) (models.Bid, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	bid, ok := f.bids[id]
	if !ok {
		return bid, sql.ErrNoRows
	}
	return bid, nil
}

func (f *fakeStore) BidsByAccessor(ctx context.Context, accessorId string) ([]models.Bid, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var bids []models.Bid
	for _, id := range f.bidOrder {
		if f.bids[id].AccessorId == accessorId {
			bids = append(bids, f.bids[id])
		}
	}
	return bids, nil
}

// Lowest amount wins, earliest placement breaks ties.
func (f *fakeStore) LowestBid(ctx context.Context, jobId, quoteId string) (models.Bid, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var lowest models.Bid
	found := false
	for _, id := range f.bidOrder {
		bid := f.bids[id]
		if len(jobId) > 0 && (bid.JobId == nil || *bid.JobId != jobId) {
			continue
		}
		if len(jobId) == 0 && (bid.QuoteId == nil || *bid.QuoteId != quoteId) {
			continue
		}
		if !found || bid.Amount < lowest.Amount {
			lowest = bid
			found = true
		}
	}
	return lowest, found, nil
}

func (f *fakeStore) AcceptBid(ctx context.Context, jobId string, bid models.Bid) (models.Project, models.Assessment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	job, ok := f.jobs[jobId]
	if !ok {
		return models.Project{}, models.Assessment{}, sql.ErrNoRows
	}

	for _, project := range f.projects {
		if project.JobId == jobId && project.Status != models.ProjectNotStarted {
			return models.Project{}, models.Assessment{}, models.ErrAlreadyAccepted
		}
	}

	if job.Status != models.WorkPending {
		return models.Project{}, models.Assessment{}, models.ErrInvalidState
	}

	job.Status = models.WorkInProgress
	f.jobs[jobId] = job

	project := models.Project{
		Id:         f.nextId("project"),
		JobId:      jobId,
		ClientId:   job.ClientId,
		AccessorId: bid.AccessorId,
		Status:     models.ProjectInProgress,
	}
	f.projects[project.Id] = project

	projectId := project.Id
	assessment := models.Assessment{
		Id:         f.nextId("assessment"),
		ProjectId:  &projectId,
		ClientId:   &job.ClientId,
		AccessorId: &bid.AccessorId,
	}
	f.assessments[assessment.Id] = assessment

	return project, assessment, nil
}

func (f *fakeStore) ProjectByID(ctx context.Context, id string) (models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	project, ok := f.projects[id]
	if !ok {
		return project, sql.ErrNoRows
	}
	return project, nil
}

func (f *fakeStore) ProjectsByAccessor(ctx context.Context, accessorId string) ([]models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var projects []models.Project
	for _, project := range f.projects {
		if project.AccessorId == accessorId {
			projects = append(projects, project)
		}
	}
	return projects, nil
}

func (f *fakeStore) UpdateProject(ctx context.Context, project models.Project) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.projects[project.Id] = project
	return nil
}

func (f *fakeStore) AssessmentByID(ctx context.Context, id string) (models.Assessment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	assessment, ok := f.assessments[id]
	if !ok {
		return assessment, sql.ErrNoRows
	}
	return assessment, nil
}

func (f *fakeStore) AssessmentIDsByProject(ctx context.Context, projectId string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []string
	for _, assessment := range f.assessments {
		if assessment.ProjectId != nil && *assessment.ProjectId == projectId {
			ids = append(ids, assessment.Id)
		}
	}
	return ids, nil
}

func (f *fakeStore) UpdateAssessment(ctx context.Context, assessment models.Assessment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.assessments[assessment.Id] = assessment
	return nil
}

func (f *fakeStore) NotificationsFor(ctx context.Context, recipient models.PartyRef) ([]models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var notifications []models.Notification
	for _, n := range f.notifications {
		if n.Recipient() == recipient {
			notifications = append(notifications, n)
		}
	}
	return notifications, nil
}

func (f *fakeStore) MarkNotificationRead(ctx context.Context, id string, recipient models.PartyRef) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, n := range f.notifications {
		if n.Id == id && n.Recipient() == recipient {
			f.notifications[i].Status = models.NotificationRead
			return nil
		}
	}
	return models.ErrNoNotification
}

func (f *fakeStore) AddPayment(ctx context.Context, payment models.Payment) (models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	payment.Id = f.nextId("payment")
	f.payments = append(f.payments, payment)
	return payment, nil
}

func (f *fakeStore) PaymentsByJob(ctx context.Context, jobId string) ([]models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var payments []models.Payment
	for _, payment := range f.payments {
		if payment.JobId == jobId {
			payments = append(payments, payment)
		}
	}
	return payments, nil
}

type fakeSink struct {
	mu   sync.Mutex
	sent []models.Notification
	err  error
}

func (s *fakeSink) Send(ctx context.Context, n models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, n)
	return nil
}

func (s *fakeSink) sentTo(recipient models.PartyRef) []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Notification
	for _, n := range s.sent {
		if n.Recipient() == recipient {
			out = append(out, n)
		}
	}
	return out
}

type fakeAdmins struct {
	admins []models.PartyRef
	err    error
}

func (a *fakeAdmins) ListAdmins(ctx context.Context) ([]models.PartyRef, error) {
	return a.admins, a.err
}

type fakeGateway struct {
	sessions int
	lastSent int64
	err      error
}

func (g *fakeGateway) CreateSession(ctx context.Context, amountCents int64, currency, description string) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	g.sessions++
	g.lastSent = amountCents
	return fmt.Sprintf("sess_test_%d", g.sessions), nil
}

//// Fixtures

type testEnv struct {
	store   *fakeStore
	sink    *fakeSink
	admins  *fakeAdmins
	gateway *fakeGateway
	svc     *Service
}

func newTestEnv() *testEnv {
	env := &testEnv{
		store:   newFakeStore(),
		sink:    &fakeSink{},
		admins:  &fakeAdmins{},
		gateway: &fakeGateway{},
	}
	env.svc = NewService(env.store, env.sink, env.admins, env.gateway, "eur", nil)
	return env
}

func (env *testEnv) addClient() models.Client {
	client := models.Client{Id: env.store.nextId("client"), Email: "client@example.com"}
	env.store.clients[client.Id] = client
	return client
}

func (env *testEnv) addAccessor(county string) models.Accessor {
	user := models.User{Id: env.store.nextId("user"), Kind: models.KindAccessor, Preference: county}
	env.store.users[user.Id] = user
	accessor := models.Accessor{Id: env.store.nextId("accessor"), UserId: user.Id, FirstName: "Pat", LastName: "Murphy"}
	env.store.accessors[accessor.Id] = accessor
	return accessor
}

func (env *testEnv) addJob(clientId string, status models.WorkStatus) models.Job {
	job := models.Job{Id: env.store.nextId("job"), ClientId: clientId, Status: status, County: "Cork"}
	env.store.jobs[job.Id] = job
	return job
}

func (env *testEnv) placeBid(t *testing.T, accessorId, jobId string, amount float64) models.Bid {
	t.Helper()
	bid, err := env.svc.PlaceBid(context.Background(), models.Bid{
		Amount:       amount,
		Availability: "next week",
		AccessorId:   accessorId,
		JobId:        &jobId,
	})
	require.NoError(t, err)
	return bid
}

//// Bids

func TestPlaceBidNotifiesClient(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	client := env.addClient()
	accessor := env.addAccessor("Cork")
	job := env.addJob(client.Id, models.WorkPending)

	bid := env.placeBid(t, accessor.Id, job.Id, 250)
	require.NotEmpty(t, bid.Id)

	// The target stays open for competing bids.
	stored, err := env.store.JobByID(ctx, job.Id)
	require.NoError(t, err)
	require.Equal(t, models.WorkPending, stored.Status)

	sent := env.sink.sentTo(models.ClientRef(client.Id))
	require.Len(t, sent, 1)
	require.Equal(t, models.NTBid, sent[0].Type)
	require.Equal(t, models.AccessorRef(accessor.Id), sent[0].Sender())
}

func TestPlaceBidOnNonPendingJob(t *testing.T) {
	env := newTestEnv()

	client := env.addClient()
	accessor := env.addAccessor("Cork")
	job := env.addJob(client.Id, models.WorkInProgress)

	jobId := job.Id
	_, err := env.svc.PlaceBid(context.Background(), models.Bid{
		Amount:       250,
		Availability: "next week",
		AccessorId:   accessor.Id,
		JobId:        &jobId,
	})
	require.ErrorIs(t, err, models.ErrInvalidState)
	require.Empty(t, env.sink.sent)
}

func TestPlaceBidValidation(t *testing.T) {
	env := newTestEnv()

	client := env.addClient()
	accessor := env.addAccessor("Cork")
	job := env.addJob(client.Id, models.WorkPending)

	jobId := job.Id
	quoteId := "quote-x"

	// Both targets set at once.
	_, err := env.svc.PlaceBid(context.Background(), models.Bid{
		Amount:       250,
		Availability: "next week",
		AccessorId:   accessor.Id,
		JobId:        &jobId,
		QuoteId:      &quoteId,
	})
	require.ErrorIs(t, err, models.ErrValidation)

	// Non-positive amount.
	_, err = env.svc.PlaceBid(context.Background(), models.Bid{
		Amount:       0,
		Availability: "next week",
		AccessorId:   accessor.Id,
		JobId:        &jobId,
	})
	require.ErrorIs(t, err, models.ErrValidation)
}

func TestLowestBidTieGoesToEarliest(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	client := env.addClient()
	a1 := env.addAccessor("Cork")
	a2 := env.addAccessor("Cork")
	a3 := env.addAccessor("Cork")
	job := env.addJob(client.Id, models.WorkPending)

	env.placeBid(t, a1.Id, job.Id, 500)
	first := env.placeBid(t, a2.Id, job.Id, 300)
	env.placeBid(t, a3.Id, job.Id, 300)

	lowest, found, err := env.svc.LowestBid(ctx, job.Id, "")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, first.Id, lowest.Id)
	require.Equal(t, 300.0, lowest.Amount)
}

func TestMyBidsStandings(t *testing.T) {
	env := newTestEnv()

	client := env.addClient()
	a1 := env.addAccessor("Cork")
	a2 := env.addAccessor("Cork")
	job := env.addJob(client.Id, models.WorkPending)

	mine := env.placeBid(t, a1.Id, job.Id, 500)
	env.placeBid(t, a2.Id, job.Id, 300)

	standings, err := env.svc.MyBids(context.Background(), a1.Id)
	require.NoError(t, err)
	require.Len(t, standings, 1)
	require.Equal(t, mine.Id, standings[0].Bid.Id)
	require.Equal(t, 300.0, standings[0].LowestAmount)
	require.False(t, standings[0].Leading)
}

//// Acceptance

func TestAcceptBid(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.admins.admins = []models.PartyRef{models.AdminRef("admin-1"), models.AdminRef("admin-2")}

	client := env.addClient()
	accessor := env.addAccessor("Cork")
	job := env.addJob(client.Id, models.WorkPending)
	bid := env.placeBid(t, accessor.Id, job.Id, 250)

	project, assessment, err := env.svc.AcceptBid(ctx, client.Id, bid.Id)
	require.NoError(t, err)
	require.Equal(t, job.Id, project.JobId)
	require.Equal(t, accessor.Id, project.AccessorId)
	require.Equal(t, models.ProjectInProgress, project.Status)
	require.NotNil(t, assessment.ProjectId)
	require.Equal(t, project.Id, *assessment.ProjectId)

	stored, err := env.store.JobByID(ctx, job.Id)
	require.NoError(t, err)
	require.Equal(t, models.WorkInProgress, stored.Status)

	summaries, err := env.svc.AccessorProjects(ctx, accessor.Id)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	require.Equal(t, []string{assessment.Id}, summaries[0].AssessmentIds)

	accepted := env.sink.sentTo(models.AccessorRef(accessor.Id))
	require.Len(t, accepted, 1)
	require.Equal(t, models.NTBidAccepted, accepted[0].Type)

	for _, admin := range env.admins.admins {
		broadcast := env.sink.sentTo(admin)
		require.Len(t, broadcast, 1)
		require.Equal(t, models.NTAdminBidAccepted, broadcast[0].Type)
	}
}

func TestAcceptBidTwice(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	client := env.addClient()
	a1 := env.addAccessor("Cork")
	a2 := env.addAccessor("Cork")
	job := env.addJob(client.Id, models.WorkPending)

	b1 := env.placeBid(t, a1.Id, job.Id, 250)
	b2 := env.placeBid(t, a2.Id, job.Id, 300)

	_, _, err := env.svc.AcceptBid(ctx, client.Id, b1.Id)
	require.NoError(t, err)

	_, _, err = env.svc.AcceptBid(ctx, client.Id, b2.Id)
	require.ErrorIs(t, err, models.ErrAlreadyAccepted)

	require.Len(t, env.store.projects, 1)
	require.Len(t, env.store.assessments, 1)
}

func TestAcceptBidOnCompletedJob(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	client := env.addClient()
	accessor := env.addAccessor("Cork")
	job := env.addJob(client.Id, models.WorkPending)
	bid := env.placeBid(t, accessor.Id, job.Id, 250)

	// The client finishes the job before accepting anything.
	_, err := env.svc.UpdateJob(ctx, client.Id, job.Id, map[string]interface{}{"status": "completed"})
	require.NoError(t, err)

	_, _, err = env.svc.AcceptBid(ctx, client.Id, bid.Id)
	require.ErrorIs(t, err, models.ErrInvalidState)
	require.Empty(t, env.store.projects)

	// A completed job never regresses.
	stored, err := env.store.JobByID(ctx, job.Id)
	require.NoError(t, err)
	require.Equal(t, models.WorkCompleted, stored.Status)
}

func TestAcceptBidForbidden(t *testing.T) {
	env := newTestEnv()

	client := env.addClient()
	stranger := env.addClient()
	accessor := env.addAccessor("Cork")
	job := env.addJob(client.Id, models.WorkPending)
	bid := env.placeBid(t, accessor.Id, job.Id, 250)

	_, _, err := env.svc.AcceptBid(context.Background(), stranger.Id, bid.Id)
	require.ErrorIs(t, err, models.ErrForbidden)
	require.Empty(t, env.store.projects)
}

func TestAcceptBidMissing(t *testing.T) {
	env := newTestEnv()
	client := env.addClient()

	_, _, err := env.svc.AcceptBid(context.Background(), client.Id, "no-such-bid")
	require.ErrorIs(t, err, models.ErrNoBid)
}

func TestAcceptBidSurvivesNotificationFailure(t *testing.T) {
	env := newTestEnv()
	env.sink.err = errors.New("smtp down")

	client := env.addClient()
	accessor := env.addAccessor("Cork")
	job := env.addJob(client.Id, models.WorkPending)
	bid := env.placeBid(t, accessor.Id, job.Id, 250)

	project, _, err := env.svc.AcceptBid(context.Background(), client.Id, bid.Id)
	require.NoError(t, err)
	require.NotEmpty(t, project.Id)
	require.Len(t, env.store.projects, 1)
}

//// Quotes

func completeQuote(quote models.Quote) models.Quote {
	quote.BuildingType = models.BTDetached
	quote.PropertyType = "house"
	quote.PropertySize = "120"
	quote.Bedrooms = "3"
	quote.HeatPumpInstalled = "no"
	quote.County = "Cork"
	quote.NearestTown = "Mallow"
	quote.BerPurpose = "sale"
	quote.PreferredDate = "2026-09-15"
	quote.PreferredTime = "morning"
	quote.ContactName = "Mary Byrne"
	quote.ContactEmail = "mary@example.com"
	quote.ContactMobile = "0851234567"
	return quote
}

func TestPromoteQuoteIdempotent(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	quote, _, err := env.svc.RequestQuote(ctx)
	require.NoError(t, err)

	env.store.quotes[quote.Id] = completeQuote(quote)

	first, err := env.svc.PromoteQuote(ctx, quote.Id)
	require.NoError(t, err)

	second, err := env.svc.PromoteQuote(ctx, quote.Id)
	require.NoError(t, err)

	require.Equal(t, first.Id, second.Id)
	require.Equal(t, first.ClientId, second.ClientId)
	require.Len(t, env.store.jobs, 1)
}

func TestPromoteIncompleteQuote(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	quote, _, err := env.svc.RequestQuote(ctx)
	require.NoError(t, err)

	_, err = env.svc.PromoteQuote(ctx, quote.Id)
	require.ErrorIs(t, err, models.ErrInvalidState)
	require.Empty(t, env.store.jobs)
}

func TestUpdateQuoteAutoPromotes(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	quote, _, err := env.svc.RequestQuote(ctx)
	require.NoError(t, err)

	// Partial update leaves the quote short of promotion.
	_, job, err := env.svc.UpdateQuote(ctx, quote.Id, map[string]interface{}{
		"county": "Cork",
	})
	require.NoError(t, err)
	require.Nil(t, job)

	_, job, err = env.svc.UpdateQuote(ctx, quote.Id, map[string]interface{}{
		"buildingType":      "detached",
		"propertyType":      "house",
		"propertySize":      "120",
		"bedrooms":          "3",
		"heatPumpInstalled": "no",
		"nearestTown":       "Mallow",
		"berPurpose":        "sale",
		"preferredDate":     "2026-09-15",
		"preferredTime":     "morning",
		"contactName":       "Mary Byrne",
		"contactEmail":      "mary@example.com",
		"contactMobile":     "0851234567",
	})
	require.NoError(t, err)
	require.NotNil(t, job)
	require.NotNil(t, job.QuoteId)
	require.Equal(t, quote.Id, *job.QuoteId)
}

//// Jobs

func TestUpdateJobOwnershipAndTransitions(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	client := env.addClient()
	stranger := env.addClient()
	job := env.addJob(client.Id, models.WorkPending)

	_, err := env.svc.UpdateJob(ctx, stranger.Id, job.Id, map[string]interface{}{"county": "Kerry"})
	require.ErrorIs(t, err, models.ErrForbidden)

	// Status can only move forward.
	_, err = env.svc.UpdateJob(ctx, client.Id, job.Id, map[string]interface{}{"status": "in_progress"})
	require.NoError(t, err)

	_, err = env.svc.UpdateJob(ctx, client.Id, job.Id, map[string]interface{}{"status": "pending"})
	require.ErrorIs(t, err, models.ErrInvalidState)
}

func TestOpenWorkFiltersByPreference(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	client := env.addClient()
	accessor := env.addAccessor("Cork")

	env.addJob(client.Id, models.WorkPending)

	other := env.addJob(client.Id, models.WorkPending)
	other.County = "Dublin"
	env.store.jobs[other.Id] = other

	board, err := env.svc.OpenWork(ctx, accessor.Id)
	require.NoError(t, err)
	require.Len(t, board.Jobs, 1)
	require.Equal(t, "Cork", board.Jobs[0].County)
}

//// Projects

func TestUpdateProjectStatus(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	client := env.addClient()
	accessor := env.addAccessor("Cork")
	job := env.addJob(client.Id, models.WorkPending)
	bid := env.placeBid(t, accessor.Id, job.Id, 250)

	project, _, err := env.svc.AcceptBid(ctx, client.Id, bid.Id)
	require.NoError(t, err)

	_, err = env.svc.UpdateProjectStatus(ctx, client.Id, project.Id, models.ProjectCompleted)
	require.ErrorIs(t, err, models.ErrForbidden)

	updated, err := env.svc.UpdateProjectStatus(ctx, accessor.Id, project.Id, models.ProjectCompleted)
	require.NoError(t, err)
	require.Equal(t, models.ProjectCompleted, updated.Status)
	require.NotNil(t, updated.EndDate)
}

func TestUpdateAssessmentAccessorOnly(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	client := env.addClient()
	accessor := env.addAccessor("Cork")
	job := env.addJob(client.Id, models.WorkPending)
	bid := env.placeBid(t, accessor.Id, job.Id, 250)

	_, assessment, err := env.svc.AcceptBid(ctx, client.Id, bid.Id)
	require.NoError(t, err)

	_, err = env.svc.UpdateAssessment(ctx, client.Id, assessment.Id, map[string]interface{}{"eircode": "T12AB34"})
	require.ErrorIs(t, err, models.ErrForbidden)

	updated, err := env.svc.UpdateAssessment(ctx, accessor.Id, assessment.Id, map[string]interface{}{
		"eircode":       "T12AB34",
		"detachedHouse": true,
		"numBedrooms":   3,
	})
	require.NoError(t, err)
	require.Equal(t, "T12AB34", updated.Eircode)
	require.True(t, updated.DetachedHouse)
	require.NotNil(t, updated.NumBedrooms)
	require.Equal(t, 3, *updated.NumBedrooms)

	// Reference fields stay put even if supplied.
	kept, err := env.svc.UpdateAssessment(ctx, accessor.Id, assessment.Id, map[string]interface{}{
		"accessorId": "someone-else",
		"mprn":       "12345678901",
	})
	require.NoError(t, err)
	require.Equal(t, accessor.Id, *kept.AccessorId)
	require.Equal(t, "12345678901", kept.MPRN)
}

//// Notifications

func TestMarkNotificationReadWrongRecipient(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.store.notifications = append(env.store.notifications, models.Notification{
		Id:            "n-1",
		Status:        models.NotificationUnread,
		RecipientKind: models.KindClient,
		RecipientId:   "client-1",
	})

	err := env.svc.MarkNotificationRead(ctx, "n-1", models.AccessorRef("accessor-1"))
	require.ErrorIs(t, err, models.ErrNoNotification)

	err = env.svc.MarkNotificationRead(ctx, "n-1", models.ClientRef("client-1"))
	require.NoError(t, err)
	require.Equal(t, models.NotificationRead, env.store.notifications[0].Status)
}

//// Payments

func TestCreatePaymentSession(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	client := env.addClient()
	accessor := env.addAccessor("Cork")
	job := env.addJob(client.Id, models.WorkPending)
	bid := env.placeBid(t, accessor.Id, job.Id, 123.45)

	payment, err := env.svc.CreatePaymentSession(ctx, client.Id, bid.Id)
	require.NoError(t, err)
	require.Equal(t, int64(12345), payment.Amount)
	require.Equal(t, int64(12345), env.gateway.lastSent)
	require.Equal(t, "eur", payment.Currency)
	require.NotEmpty(t, payment.SessionId)
}

func TestJobPayments(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	client := env.addClient()
	stranger := env.addClient()
	accessor := env.addAccessor("Cork")
	job := env.addJob(client.Id, models.WorkPending)
	bid := env.placeBid(t, accessor.Id, job.Id, 250)

	payment, err := env.svc.CreatePaymentSession(ctx, client.Id, bid.Id)
	require.NoError(t, err)

	payments, err := env.svc.JobPayments(ctx, client.Id, job.Id)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	require.Equal(t, payment.SessionId, payments[0].SessionId)

	_, err = env.svc.JobPayments(ctx, stranger.Id, job.Id)
	require.ErrorIs(t, err, models.ErrForbidden)
}

func TestCreatePaymentSessionGatewayFailure(t *testing.T) {
	env := newTestEnv()
	env.gateway.err = errors.New("provider timeout")

	client := env.addClient()
	accessor := env.addAccessor("Cork")
	job := env.addJob(client.Id, models.WorkPending)
	bid := env.placeBid(t, accessor.Id, job.Id, 250)

	_, err := env.svc.CreatePaymentSession(context.Background(), client.Id, bid.Id)
	require.ErrorIs(t, err, models.ErrPaymentGateway)
	require.Empty(t, env.store.payments)
}

func TestCreatePaymentSessionForbidden(t *testing.T) {
	env := newTestEnv()

	client := env.addClient()
	stranger := env.addClient()
	accessor := env.addAccessor("Cork")
	job := env.addJob(client.Id, models.WorkPending)
	bid := env.placeBid(t, accessor.Id, job.Id, 250)

	_, err := env.svc.CreatePaymentSession(context.Background(), stranger.Id, bid.Id)
	require.ErrorIs(t, err, models.ErrForbidden)
	require.Zero(t, env.gateway.sessions)
}
