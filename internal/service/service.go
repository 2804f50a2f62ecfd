package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"berbook/internal/models"
)

// Store is the persistence surface the workflow engine runs on.
type Store interface {
	UserByID(ctx context.Context, id string) (models.User, error)
	ClientByID(ctx context.Context, id string) (models.Client, error)
	AccessorByID(ctx context.Context, id string) (models.Accessor, error)
	EnsureClient(ctx context.Context, name, email, phone string) (models.Client, error)
	CountAccessors(ctx context.Context) (int, error)
	CountClients(ctx context.Context) (int, error)
	CountPendingJobs(ctx context.Context) (int, error)

	AddQuote(ctx context.Context) (models.Quote, models.Assessment, error)
	QuoteByID(ctx context.Context, id string) (models.Quote, error)
	UpdateQuote(ctx context.Context, quote models.Quote) error
	PendingQuotesByCounty(ctx context.Context, county string) ([]models.Quote, error)

	AddJob(ctx context.Context, clientId string) (models.Job, error)
	JobByID(ctx context.Context, id string) (models.Job, error)
	UpdateJob(ctx context.Context, job models.Job) error
	JobsByClient(ctx context.Context, clientId string) ([]models.Job, error)
	PendingJobsByCounty(ctx context.Context, county string) ([]models.Job, error)
	SearchJobs(ctx context.Context, filter models.JobFilter) ([]models.Job, error)
	UpsertJobFromQuote(ctx context.Context, clientId string, quote models.Quote) (models.Job, error)
	WorkSummaries(ctx context.Context) ([]models.WorkSummary, error)

	AddBid(ctx context.Context, bid models.Bid) (models.Bid, error)
	BidByID(ctx context.Context, id string) (models.Bid, error)
	BidsByAccessor(ctx context.Context, accessorId string) ([]models.Bid, error)
	LowestBid(ctx context.Context, jobId, quoteId string) (models.Bid, bool, error)

	AcceptBid(ctx context.Context, jobId string, bid models.Bid) (models.Project, models.Assessment, error)
	ProjectByID(ctx context.Context, id string) (models.Project, error)
	ProjectsByAccessor(ctx context.Context, accessorId string) ([]models.Project, error)
	UpdateProject(ctx context.Context, project models.Project) error
	AssessmentByID(ctx context.Context, id string) (models.Assessment, error)
	AssessmentIDsByProject(ctx context.Context, projectId string) ([]string, error)
	UpdateAssessment(ctx context.Context, assessment models.Assessment) error

	NotificationsFor(ctx context.Context, recipient models.PartyRef) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, id string, recipient models.PartyRef) error

	AddPayment(ctx context.Context, payment models.Payment) (models.Payment, error)
	PaymentsByJob(ctx context.Context, jobId string) ([]models.Payment, error)
}

// NotificationSink delivers notifications. Delivery is best effort around
// workflow transitions: a failed send never rolls the transition back.
type NotificationSink interface {
	Send(ctx context.Context, n models.Notification) error
}

// AdminDirectory lists the admin parties the acceptance broadcast targets.
type AdminDirectory interface {
	ListAdmins(ctx context.Context) ([]models.PartyRef, error)
}

// PaymentGateway opens checkout sessions with an external provider.
type PaymentGateway interface {
	CreateSession(ctx context.Context, amountCents int64, currency, description string) (string, error)
}

type Service struct {
	store    Store
	sink     NotificationSink
	admins   AdminDirectory
	gateway  PaymentGateway
	currency string
	log      *log.Logger
}

func NewService(store Store, sink NotificationSink, admins AdminDirectory, gateway PaymentGateway, currency string, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(os.Stdout, "", log.LstdFlags)
	}
	if len(currency) == 0 {
		currency = "eur"
	}
	return &Service{
		store:    store,
		sink:     sink,
		admins:   admins,
		gateway:  gateway,
		currency: currency,
		log:      logger,
	}
}

// BidStanding is a bid together with where it sits against the competition
// on the same job or quote.
type BidStanding struct {
	Bid          models.Bid `json:"bid"`
	LowestAmount float64    `json:"lowestAmount"`
	Leading      bool       `json:"leading"`
}

// WorkBoard is the open work an accessor can bid on.
type WorkBoard struct {
	Jobs   []models.Job   `json:"jobs"`
	Quotes []models.Quote `json:"quotes"`
}

// ProjectSummary is a project with the ids of its survey forms.
type ProjectSummary struct {
	Project       models.Project `json:"project"`
	AssessmentIds []string       `json:"assessmentIds"`
}

//// Quotes

func (s *Service) RequestQuote(ctx context.Context) (models.Quote, models.Assessment, error) {
	quote, assessment, err := s.store.AddQuote(ctx)
	if err != nil {
		return quote, assessment, fmt.Errorf("service.Service.RequestQuote: %w", err)
	}
	return quote, assessment, nil
}

// UpdateQuote applies a partial update to a quote. Once every required field
// is filled in the quote is promoted to a job automatically; the returned job
// is nil until then.
func (s *Service) UpdateQuote(ctx context.Context, id string, changes map[string]interface{}) (models.Quote, *models.Job, error) {
	quote, err := s.store.QuoteByID(ctx, id)
	if err != nil {
		return quote, nil, fmt.Errorf("service.Service.UpdateQuote: %w", notFound(err, models.ErrNoQuote))
	}

	if quote.Status != models.WorkPending {
		return quote, nil, fmt.Errorf("service.Service.UpdateQuote: %w", models.ErrInvalidState)
	}

	err = applyChanges(&quote, changes, "id", "status", "createdAt")
	if err != nil {
		return quote, nil, fmt.Errorf("service.Service.UpdateQuote: %w", err)
	}

	if len(quote.BuildingType) > 0 && !models.ValidBuildingType(quote.BuildingType) {
		return quote, nil, fmt.Errorf("service.Service.UpdateQuote: %w", models.ErrValidation)
	}

	err = s.store.UpdateQuote(ctx, quote)
	if err != nil {
		return quote, nil, fmt.Errorf("service.Service.UpdateQuote: %w", err)
	}

	if !quote.Complete() {
		return quote, nil, nil
	}

	job, err := s.PromoteQuote(ctx, quote.Id)
	if err != nil {
		return quote, nil, fmt.Errorf("service.Service.UpdateQuote: %w", err)
	}
	return quote, &job, nil
}

// PromoteQuote turns a completed quote into a client-owned pending job. The
// client is resolved from the quote's contact details, created on first
// contact. Promotion is an upsert keyed on the source quote, so calling it
// twice yields one job.
func (s *Service) PromoteQuote(ctx context.Context, quoteId string) (models.Job, error) {
	var job models.Job

	quote, err := s.store.QuoteByID(ctx, quoteId)
	if err != nil {
		return job, fmt.Errorf("service.Service.PromoteQuote: %w", notFound(err, models.ErrNoQuote))
	}

	if !quote.Complete() {
		return job, fmt.Errorf("service.Service.PromoteQuote: %w", models.ErrInvalidState)
	}

	client, err := s.store.EnsureClient(ctx, quote.ContactName, quote.ContactEmail, quote.ContactMobile)
	if err != nil {
		return job, fmt.Errorf("service.Service.PromoteQuote: %w", err)
	}

	job, err = s.store.UpsertJobFromQuote(ctx, client.Id, quote)
	if err != nil {
		return job, fmt.Errorf("service.Service.PromoteQuote: %w", err)
	}

	if quote.Status == models.WorkPending {
		quote.Status = models.WorkInProgress
		err = s.store.UpdateQuote(ctx, quote)
		if err != nil {
			return job, fmt.Errorf("service.Service.PromoteQuote: %w", err)
		}
	}

	return job, nil
}

//// Jobs

func (s *Service) CreateJob(ctx context.Context, clientId string) (models.Job, error) {
	var job models.Job

	_, err := s.store.ClientByID(ctx, clientId)
	if err != nil {
		return job, fmt.Errorf("service.Service.CreateJob: %w", notFound(err, models.ErrNoUser))
	}

	job, err = s.store.AddJob(ctx, clientId)
	if err != nil {
		return job, fmt.Errorf("service.Service.CreateJob: %w", err)
	}
	return job, nil
}

func (s *Service) UpdateJob(ctx context.Context, clientId, jobId string, changes map[string]interface{}) (models.Job, error) {
	job, err := s.store.JobByID(ctx, jobId)
	if err != nil {
		return job, fmt.Errorf("service.Service.UpdateJob: %w", notFound(err, models.ErrNoJob))
	}

	if job.ClientId != clientId {
		return job, fmt.Errorf("service.Service.UpdateJob: %w", models.ErrForbidden)
	}

	prevStatus := job.Status
	err = applyChanges(&job, changes, "id", "clientId", "quoteId", "createdAt")
	if err != nil {
		return job, fmt.Errorf("service.Service.UpdateJob: %w", err)
	}

	if job.Status != prevStatus && !models.ValidWorkTransition(prevStatus, job.Status) {
		return job, fmt.Errorf("service.Service.UpdateJob: %w", models.ErrInvalidState)
	}
	if len(job.BuildingType) > 0 && !models.ValidBuildingType(job.BuildingType) {
		return job, fmt.Errorf("service.Service.UpdateJob: %w", models.ErrValidation)
	}

	err = s.store.UpdateJob(ctx, job)
	if err != nil {
		return job, fmt.Errorf("service.Service.UpdateJob: %w", err)
	}
	return job, nil
}

func (s *Service) ClientJobs(ctx context.Context, clientId string) ([]models.Job, error) {
	jobs, err := s.store.JobsByClient(ctx, clientId)
	if err != nil {
		return nil, fmt.Errorf("service.Service.ClientJobs: %w", err)
	}
	return jobs, nil
}

func (s *Service) SearchJobs(ctx context.Context, filter models.JobFilter) ([]models.Job, error) {
	jobs, err := s.store.SearchJobs(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("service.Service.SearchJobs: %w", err)
	}
	return jobs, nil
}

// OpenWork lists the pending jobs and quotes in the accessor's preferred
// county, the ones the accessor may bid on.
func (s *Service) OpenWork(ctx context.Context, accessorId string) (WorkBoard, error) {
	var board WorkBoard

	accessor, err := s.store.AccessorByID(ctx, accessorId)
	if err != nil {
		return board, fmt.Errorf("service.Service.OpenWork: %w", notFound(err, models.ErrNoUser))
	}

	user, err := s.store.UserByID(ctx, accessor.UserId)
	if err != nil {
		return board, fmt.Errorf("service.Service.OpenWork: %w", notFound(err, models.ErrNoUser))
	}

	board.Jobs, err = s.store.PendingJobsByCounty(ctx, user.Preference)
	if err != nil {
		return board, fmt.Errorf("service.Service.OpenWork: %w", err)
	}

	board.Quotes, err = s.store.PendingQuotesByCounty(ctx, user.Preference)
	if err != nil {
		return board, fmt.Errorf("service.Service.OpenWork: %w", err)
	}

	return board, nil
}

//// Bids

// PlaceBid records an accessor's offer against a pending job or quote. A bid
// on a job notifies the job's client; quotes have no owner yet, so nobody is
// notified.
func (s *Service) PlaceBid(ctx context.Context, bid models.Bid) (models.Bid, error) {
	err := bid.Validate()
	if err != nil {
		return bid, fmt.Errorf("service.Service.PlaceBid: %w", err)
	}

	accessor, err := s.store.AccessorByID(ctx, bid.AccessorId)
	if err != nil {
		return bid, fmt.Errorf("service.Service.PlaceBid: %w", notFound(err, models.ErrNoUser))
	}

	var clientId string
	if bid.JobId != nil {
		job, err := s.store.JobByID(ctx, *bid.JobId)
		if err != nil {
			return bid, fmt.Errorf("service.Service.PlaceBid: %w", notFound(err, models.ErrNoJob))
		}
		if job.Status != models.WorkPending {
			return bid, fmt.Errorf("service.Service.PlaceBid: %w", models.ErrInvalidState)
		}
		clientId = job.ClientId
	} else {
		quote, err := s.store.QuoteByID(ctx, *bid.QuoteId)
		if err != nil {
			return bid, fmt.Errorf("service.Service.PlaceBid: %w", notFound(err, models.ErrNoQuote))
		}
		if quote.Status != models.WorkPending {
			return bid, fmt.Errorf("service.Service.PlaceBid: %w", models.ErrInvalidState)
		}
	}

	bid, err = s.store.AddBid(ctx, bid)
	if err != nil {
		return bid, fmt.Errorf("service.Service.PlaceBid: %w", err)
	}

	if len(clientId) > 0 {
		s.notify(ctx, models.Notification{
			Message:       fmt.Sprintf("%s %s placed a bid of %.2f on your job", accessor.FirstName, accessor.LastName, bid.Amount),
			Type:          models.NTBid,
			RecipientKind: models.KindClient,
			RecipientId:   clientId,
			SenderKind:    models.KindAccessor,
			SenderId:      bid.AccessorId,
		})
	}

	return bid, nil
}

// AcceptBid is the client's acceptance of a bid on their job. The store runs
// the transition as one transaction; afterwards the winning accessor and
// every admin are notified. Accepting a second bid on the same job reports
// models.ErrAlreadyAccepted.
func (s *Service) AcceptBid(ctx context.Context, clientId, bidId string) (models.Project, models.Assessment, error) {
	var project models.Project
	var assessment models.Assessment

	bid, err := s.store.BidByID(ctx, bidId)
	if err != nil {
		return project, assessment, fmt.Errorf("service.Service.AcceptBid: %w", notFound(err, models.ErrNoBid))
	}

	if bid.JobId == nil {
		return project, assessment, fmt.Errorf("service.Service.AcceptBid: %w", models.ErrInvalidState)
	}

	job, err := s.store.JobByID(ctx, *bid.JobId)
	if err != nil {
		return project, assessment, fmt.Errorf("service.Service.AcceptBid: %w", notFound(err, models.ErrNoJob))
	}

	if job.ClientId != clientId {
		return project, assessment, fmt.Errorf("service.Service.AcceptBid: %w", models.ErrForbidden)
	}

	project, assessment, err = s.store.AcceptBid(ctx, job.Id, bid)
	if err != nil {
		return project, assessment, fmt.Errorf("service.Service.AcceptBid: %w", notFound(err, models.ErrNoJob))
	}

	// The quote's survey linkage carries over onto the project assessment.
	if job.QuoteId != nil {
		assessment.QuoteId = job.QuoteId
		err = s.store.UpdateAssessment(ctx, assessment)
		if err != nil {
			s.log.Printf("service.Service.AcceptBid: could not link assessment to quote: %v", err)
		}
	}

	s.notify(ctx, models.Notification{
		Message:       fmt.Sprintf("Your bid of %.2f was accepted", bid.Amount),
		Type:          models.NTBidAccepted,
		RecipientKind: models.KindAccessor,
		RecipientId:   bid.AccessorId,
		SenderKind:    models.KindClient,
		SenderId:      clientId,
	})

	admins, err := s.admins.ListAdmins(ctx)
	if err != nil {
		s.log.Printf("service.Service.AcceptBid: could not list admins: %v", err)
		return project, assessment, nil
	}
	for _, admin := range admins {
		s.notify(ctx, models.Notification{
			Message:       fmt.Sprintf("Bid %s was accepted on job %s", bid.Id, job.Id),
			Type:          models.NTAdminBidAccepted,
			RecipientKind: admin.Kind,
			RecipientId:   admin.Id,
			SenderKind:    models.KindClient,
			SenderId:      clientId,
		})
	}

	return project, assessment, nil
}

func (s *Service) LowestBid(ctx context.Context, jobId, quoteId string) (models.Bid, bool, error) {
	bid, found, err := s.store.LowestBid(ctx, jobId, quoteId)
	if err != nil {
		return bid, found, fmt.Errorf("service.Service.LowestBid: %w", err)
	}
	return bid, found, nil
}

// MyBids lists an accessor's bids with the current lowest bid on each target,
// so the accessor can see which of their offers still lead.
func (s *Service) MyBids(ctx context.Context, accessorId string) ([]BidStanding, error) {
	bids, err := s.store.BidsByAccessor(ctx, accessorId)
	if err != nil {
		return nil, fmt.Errorf("service.Service.MyBids: %w", err)
	}

	standings := make([]BidStanding, 0, len(bids))
	for _, bid := range bids {
		var jobId, quoteId string
		if bid.JobId != nil {
			jobId = *bid.JobId
		}
		if bid.QuoteId != nil {
			quoteId = *bid.QuoteId
		}

		lowest, found, err := s.store.LowestBid(ctx, jobId, quoteId)
		if err != nil {
			return nil, fmt.Errorf("service.Service.MyBids: %w", err)
		}

		standing := BidStanding{Bid: bid}
		if found {
			standing.LowestAmount = lowest.Amount
			standing.Leading = lowest.Id == bid.Id
		}
		standings = append(standings, standing)
	}

	return standings, nil
}

// BidDetail shows a bid to its accessor or to the client who owns the job it
// targets.
func (s *Service) BidDetail(ctx context.Context, userId, bidId string) (models.Bid, error) {
	bid, err := s.store.BidByID(ctx, bidId)
	if err != nil {
		return bid, fmt.Errorf("service.Service.BidDetail: %w", notFound(err, models.ErrNoBid))
	}

	if bid.AccessorId == userId {
		return bid, nil
	}

	if bid.JobId != nil {
		job, err := s.store.JobByID(ctx, *bid.JobId)
		if err != nil {
			return bid, fmt.Errorf("service.Service.BidDetail: %w", notFound(err, models.ErrNoJob))
		}
		if job.ClientId == userId {
			return bid, nil
		}
	}

	return models.Bid{}, fmt.Errorf("service.Service.BidDetail: %w", models.ErrForbidden)
}

//// Projects and assessments

func (s *Service) AccessorProjects(ctx context.Context, accessorId string) ([]ProjectSummary, error) {
	projects, err := s.store.ProjectsByAccessor(ctx, accessorId)
	if err != nil {
		return nil, fmt.Errorf("service.Service.AccessorProjects: %w", err)
	}

	summaries := make([]ProjectSummary, 0, len(projects))
	for _, project := range projects {
		ids, err := s.store.AssessmentIDsByProject(ctx, project.Id)
		if err != nil {
			return nil, fmt.Errorf("service.Service.AccessorProjects: %w", err)
		}
		summaries = append(summaries, ProjectSummary{Project: project, AssessmentIds: ids})
	}
	return summaries, nil
}

func (s *Service) ProjectDetail(ctx context.Context, userId, projectId string) (models.Project, error) {
	project, err := s.store.ProjectByID(ctx, projectId)
	if err != nil {
		return project, fmt.Errorf("service.Service.ProjectDetail: %w", notFound(err, models.ErrNoProject))
	}

	if project.ClientId != userId && project.AccessorId != userId {
		return models.Project{}, fmt.Errorf("service.Service.ProjectDetail: %w", models.ErrForbidden)
	}
	return project, nil
}

// UpdateProjectStatus moves a project along its lifecycle. Only the assigned
// accessor may do this; completing a project stamps its end date.
func (s *Service) UpdateProjectStatus(ctx context.Context, accessorId, projectId string, status models.ProjectStatus) (models.Project, error) {
	project, err := s.store.ProjectByID(ctx, projectId)
	if err != nil {
		return project, fmt.Errorf("service.Service.UpdateProjectStatus: %w", notFound(err, models.ErrNoProject))
	}

	if project.AccessorId != accessorId {
		return models.Project{}, fmt.Errorf("service.Service.UpdateProjectStatus: %w", models.ErrForbidden)
	}
	if !models.ValidProjectStatus(status) {
		return project, fmt.Errorf("service.Service.UpdateProjectStatus: %w", models.ErrValidation)
	}
	if project.Status == models.ProjectCompleted && status != models.ProjectCompleted {
		return project, fmt.Errorf("service.Service.UpdateProjectStatus: %w", models.ErrInvalidState)
	}

	project.Status = status
	if status == models.ProjectCompleted && project.EndDate == nil {
		now := time.Now().UTC()
		project.EndDate = &now
	}

	err = s.store.UpdateProject(ctx, project)
	if err != nil {
		return project, fmt.Errorf("service.Service.UpdateProjectStatus: %w", err)
	}
	return project, nil
}

func (s *Service) AssessmentDetail(ctx context.Context, userId, assessmentId string) (models.Assessment, error) {
	assessment, err := s.store.AssessmentByID(ctx, assessmentId)
	if err != nil {
		return assessment, fmt.Errorf("service.Service.AssessmentDetail: %w", notFound(err, models.ErrNoAssessment))
	}

	owned := assessment.AccessorId != nil && *assessment.AccessorId == userId
	client := assessment.ClientId != nil && *assessment.ClientId == userId
	if !owned && !client {
		return models.Assessment{}, fmt.Errorf("service.Service.AssessmentDetail: %w", models.ErrForbidden)
	}
	return assessment, nil
}

// UpdateAssessment applies a partial survey update. Only the assigned
// accessor may edit an assessment.
func (s *Service) UpdateAssessment(ctx context.Context, accessorId, assessmentId string, changes map[string]interface{}) (models.Assessment, error) {
	assessment, err := s.store.AssessmentByID(ctx, assessmentId)
	if err != nil {
		return assessment, fmt.Errorf("service.Service.UpdateAssessment: %w", notFound(err, models.ErrNoAssessment))
	}

	if assessment.AccessorId == nil || *assessment.AccessorId != accessorId {
		return models.Assessment{}, fmt.Errorf("service.Service.UpdateAssessment: %w", models.ErrForbidden)
	}

	err = applyChanges(&assessment, changes, "id", "projectId", "quoteId", "clientId", "accessorId", "createdAt")
	if err != nil {
		return assessment, fmt.Errorf("service.Service.UpdateAssessment: %w", err)
	}

	err = s.store.UpdateAssessment(ctx, assessment)
	if err != nil {
		return assessment, fmt.Errorf("service.Service.UpdateAssessment: %w", err)
	}
	return assessment, nil
}

//// Notifications

func (s *Service) Notifications(ctx context.Context, recipient models.PartyRef) ([]models.Notification, error) {
	if !models.ValidUserKind(recipient.Kind) {
		return nil, fmt.Errorf("service.Service.Notifications: %w", models.ErrValidation)
	}
	notifications, err := s.store.NotificationsFor(ctx, recipient)
	if err != nil {
		return nil, fmt.Errorf("service.Service.Notifications: %w", err)
	}
	return notifications, nil
}

func (s *Service) MarkNotificationRead(ctx context.Context, id string, recipient models.PartyRef) error {
	err := s.store.MarkNotificationRead(ctx, id, recipient)
	if err != nil {
		return fmt.Errorf("service.Service.MarkNotificationRead: %w", err)
	}
	return nil
}

//// Payments

// CreatePaymentSession opens a checkout session for an accepted bid on the
// client's job. The bid amount is converted to cents for the gateway; a
// gateway failure surfaces as models.ErrPaymentGateway.
func (s *Service) CreatePaymentSession(ctx context.Context, clientId, bidId string) (models.Payment, error) {
	var payment models.Payment

	bid, err := s.store.BidByID(ctx, bidId)
	if err != nil {
		return payment, fmt.Errorf("service.Service.CreatePaymentSession: %w", notFound(err, models.ErrNoBid))
	}

	if bid.JobId == nil {
		return payment, fmt.Errorf("service.Service.CreatePaymentSession: %w", models.ErrInvalidState)
	}

	job, err := s.store.JobByID(ctx, *bid.JobId)
	if err != nil {
		return payment, fmt.Errorf("service.Service.CreatePaymentSession: %w", notFound(err, models.ErrNoJob))
	}

	if job.ClientId != clientId {
		return payment, fmt.Errorf("service.Service.CreatePaymentSession: %w", models.ErrForbidden)
	}

	cents := models.AmountToCents(bid.Amount)
	sessionId, err := s.gateway.CreateSession(ctx, cents, s.currency, "Energy assessment, job "+job.Id)
	if err != nil {
		return payment, fmt.Errorf("service.Service.CreatePaymentSession: %w: %v", models.ErrPaymentGateway, err)
	}

	payment, err = s.store.AddPayment(ctx, models.Payment{
		BidId:      bid.Id,
		JobId:      job.Id,
		AccessorId: bid.AccessorId,
		Amount:     cents,
		Currency:   s.currency,
		SessionId:  sessionId,
	})
	if err != nil {
		return payment, fmt.Errorf("service.Service.CreatePaymentSession: %w", err)
	}

	return payment, nil
}

// JobPayments lists the payment sessions opened against a job, for the
// client who owns it.
func (s *Service) JobPayments(ctx context.Context, clientId, jobId string) ([]models.Payment, error) {
	job, err := s.store.JobByID(ctx, jobId)
	if err != nil {
		return nil, fmt.Errorf("service.Service.JobPayments: %w", notFound(err, models.ErrNoJob))
	}

	if job.ClientId != clientId {
		return nil, fmt.Errorf("service.Service.JobPayments: %w", models.ErrForbidden)
	}

	payments, err := s.store.PaymentsByJob(ctx, jobId)
	if err != nil {
		return nil, fmt.Errorf("service.Service.JobPayments: %w", err)
	}
	return payments, nil
}

//// Admin

func (s *Service) AdminStats(ctx context.Context) (models.AdminStats, error) {
	var stats models.AdminStats
	var err error

	stats.TotalAccessors, err = s.store.CountAccessors(ctx)
	if err != nil {
		return stats, fmt.Errorf("service.Service.AdminStats: %w", err)
	}
	stats.TotalClients, err = s.store.CountClients(ctx)
	if err != nil {
		return stats, fmt.Errorf("service.Service.AdminStats: %w", err)
	}
	stats.TotalPendingJobs, err = s.store.CountPendingJobs(ctx)
	if err != nil {
		return stats, fmt.Errorf("service.Service.AdminStats: %w", err)
	}

	return stats, nil
}

func (s *Service) AdminWork(ctx context.Context) ([]models.WorkSummary, error) {
	summaries, err := s.store.WorkSummaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.Service.AdminWork: %w", err)
	}
	return summaries, nil
}

//// Helpers

func (s *Service) notify(ctx context.Context, n models.Notification) {
	err := s.sink.Send(ctx, n)
	if err != nil {
		s.log.Printf("service.Service.notify: could not deliver notification to %s %s: %v", n.RecipientKind, n.RecipientId, err)
	}
}

// notFound converts a missing-row error to the entity sentinel, leaving every
// other error as is.
func notFound(err, sentinel error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return sentinel
	}
	return err
}

// applyChanges merges a JSON-shaped change set onto an entity by remarshaling
// it through the entity's json tags. Listed keys are immutable and dropped
// before the merge.
func applyChanges(dst interface{}, changes map[string]interface{}, immutable ...string) error {
	for _, key := range immutable {
		delete(changes, key)
	}

	raw, err := json.Marshal(changes)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	err = json.Unmarshal(raw, dst)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrValidation, err)
	}
	return nil
}
