package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"berbook/internal/models"
	"berbook/internal/service"

	"github.com/go-chi/chi/v5"
)

type Service interface {
	RequestQuote(ctx context.Context) (models.Quote, models.Assessment, error)
	UpdateQuote(ctx context.Context, id string, changes map[string]interface{}) (models.Quote, *models.Job, error)
	PromoteQuote(ctx context.Context, quoteId string) (models.Job, error)

	CreateJob(ctx context.Context, clientId string) (models.Job, error)
	UpdateJob(ctx context.Context, clientId, jobId string, changes map[string]interface{}) (models.Job, error)
	ClientJobs(ctx context.Context, clientId string) ([]models.Job, error)
	SearchJobs(ctx context.Context, filter models.JobFilter) ([]models.Job, error)
	OpenWork(ctx context.Context, accessorId string) (service.WorkBoard, error)

	PlaceBid(ctx context.Context, bid models.Bid) (models.Bid, error)
	AcceptBid(ctx context.Context, clientId, bidId string) (models.Project, models.Assessment, error)
	LowestBid(ctx context.Context, jobId, quoteId string) (models.Bid, bool, error)
	MyBids(ctx context.Context, accessorId string) ([]service.BidStanding, error)
	BidDetail(ctx context.Context, userId, bidId string) (models.Bid, error)

	AccessorProjects(ctx context.Context, accessorId string) ([]service.ProjectSummary, error)
	ProjectDetail(ctx context.Context, userId, projectId string) (models.Project, error)
	UpdateProjectStatus(ctx context.Context, accessorId, projectId string, status models.ProjectStatus) (models.Project, error)
	AssessmentDetail(ctx context.Context, userId, assessmentId string) (models.Assessment, error)
	UpdateAssessment(ctx context.Context, accessorId, assessmentId string, changes map[string]interface{}) (models.Assessment, error)

	Notifications(ctx context.Context, recipient models.PartyRef) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, id string, recipient models.PartyRef) error

	CreatePaymentSession(ctx context.Context, clientId, bidId string) (models.Payment, error)
	JobPayments(ctx context.Context, clientId, jobId string) ([]models.Payment, error)

	AdminStats(ctx context.Context) (models.AdminStats, error)
	AdminWork(ctx context.Context) ([]models.WorkSummary, error)
}

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// GET /api/ping
func (c *Controller) Ping(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "ok")
}

//// Quotes

// POST /api/quotes/new
func (c *Controller) NewQuote(w http.ResponseWriter, r *http.Request) {
	quote, assessment, err := c.service.RequestQuote(r.Context())
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, struct {
		Quote      models.Quote      `json:"quote"`
		Assessment models.Assessment `json:"assessment"`
	}{quote, assessment})
}

// PATCH /api/quotes/{quoteId}
func (c *Controller) EditQuote(w http.ResponseWriter, r *http.Request) {
	data, err := c.readBody(r.Body)
	if err != nil {
		c.errorResponse(w, http.StatusInternalServerError, "could not read request body")
		return
	}

	changes, err := ParseChangeReq(data)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	quote, job, err := c.service.UpdateQuote(r.Context(), chi.URLParam(r, "quoteId"), changes)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, struct {
		Quote models.Quote `json:"quote"`
		Job   *models.Job  `json:"job,omitempty"`
	}{quote, job})
}

// POST /api/quotes/{quoteId}/promote
func (c *Controller) PromoteQuote(w http.ResponseWriter, r *http.Request) {
	job, err := c.service.PromoteQuote(r.Context(), chi.URLParam(r, "quoteId"))
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, job)
}

// POST /api/quotes/{quoteId}/bid
func (c *Controller) NewQuoteBid(w http.ResponseWriter, r *http.Request) {
	quoteId := chi.URLParam(r, "quoteId")
	c.placeBid(w, r, nil, &quoteId)
}

// GET /api/quotes/{quoteId}/lowest_bid
func (c *Controller) QuoteLowestBid(w http.ResponseWriter, r *http.Request) {
	c.lowestBid(w, r, "", chi.URLParam(r, "quoteId"))
}

//// Jobs

// POST /api/jobs/new
func (c *Controller) NewJob(w http.ResponseWriter, r *http.Request) {
	clientId := r.URL.Query().Get("clientId")
	if len(clientId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "missing 'clientId' query parameter")
		return
	}

	job, err := c.service.CreateJob(r.Context(), clientId)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, job)
}

// PATCH /api/jobs/{jobId}
func (c *Controller) EditJob(w http.ResponseWriter, r *http.Request) {
	clientId := r.URL.Query().Get("clientId")
	if len(clientId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "missing 'clientId' query parameter")
		return
	}

	data, err := c.readBody(r.Body)
	if err != nil {
		c.errorResponse(w, http.StatusInternalServerError, "could not read request body")
		return
	}

	changes, err := ParseChangeReq(data)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	job, err := c.service.UpdateJob(r.Context(), clientId, chi.URLParam(r, "jobId"), changes)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, job)
}

// GET /api/jobs/my
func (c *Controller) MyJobs(w http.ResponseWriter, r *http.Request) {
	clientId := r.URL.Query().Get("clientId")
	if len(clientId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "missing 'clientId' query parameter")
		return
	}

	jobs, err := c.service.ClientJobs(r.Context(), clientId)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, jobs)
}

// GET /api/jobs/search
func (c *Controller) SearchJobs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	jobs, err := c.service.SearchJobs(r.Context(), models.JobFilter{
		PropertyType: query.Get("propertyType"),
		PropertySize: query.Get("propertySize"),
		Bedrooms:     query.Get("bedrooms"),
		County:       query.Get("county"),
		NearestTown:  query.Get("nearestTown"),
	})
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, jobs)
}

// GET /api/jobs/open
func (c *Controller) OpenWork(w http.ResponseWriter, r *http.Request) {
	accessorId := r.URL.Query().Get("accessorId")
	if len(accessorId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "missing 'accessorId' query parameter")
		return
	}

	board, err := c.service.OpenWork(r.Context(), accessorId)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, board)
}

// POST /api/jobs/{jobId}/bid
func (c *Controller) NewJobBid(w http.ResponseWriter, r *http.Request) {
	jobId := chi.URLParam(r, "jobId")
	c.placeBid(w, r, &jobId, nil)
}

// GET /api/jobs/{jobId}/lowest_bid
func (c *Controller) JobLowestBid(w http.ResponseWriter, r *http.Request) {
	c.lowestBid(w, r, chi.URLParam(r, "jobId"), "")
}

//// Bids

// GET /api/bids/my
func (c *Controller) MyBids(w http.ResponseWriter, r *http.Request) {
	accessorId := r.URL.Query().Get("accessorId")
	if len(accessorId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "missing 'accessorId' query parameter")
		return
	}

	standings, err := c.service.MyBids(r.Context(), accessorId)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, standings)
}

// GET /api/bids/{bidId}
func (c *Controller) BidDetail(w http.ResponseWriter, r *http.Request) {
	userId := r.URL.Query().Get("userId")
	if len(userId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "missing 'userId' query parameter")
		return
	}

	bid, err := c.service.BidDetail(r.Context(), userId, chi.URLParam(r, "bidId"))
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, bid)
}

// POST /api/bids/{bidId}/accept
func (c *Controller) AcceptBid(w http.ResponseWriter, r *http.Request) {
	clientId := r.URL.Query().Get("clientId")
	if len(clientId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "missing 'clientId' query parameter")
		return
	}

	project, assessment, err := c.service.AcceptBid(r.Context(), clientId, chi.URLParam(r, "bidId"))
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, struct {
		Project    models.Project    `json:"project"`
		Assessment models.Assessment `json:"assessment"`
	}{project, assessment})
}

//// Projects and assessments

// GET /api/projects
func (c *Controller) Projects(w http.ResponseWriter, r *http.Request) {
	accessorId := r.URL.Query().Get("accessorId")
	if len(accessorId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "missing 'accessorId' query parameter")
		return
	}

	projects, err := c.service.AccessorProjects(r.Context(), accessorId)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, projects)
}

// GET /api/projects/{projectId}
func (c *Controller) ProjectDetail(w http.ResponseWriter, r *http.Request) {
	userId := r.URL.Query().Get("userId")
	if len(userId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "missing 'userId' query parameter")
		return
	}

	project, err := c.service.ProjectDetail(r.Context(), userId, chi.URLParam(r, "projectId"))
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, project)
}

// PUT /api/projects/{projectId}/status
func (c *Controller) SetProjectStatus(w http.ResponseWriter, r *http.Request) {
	accessorId := r.URL.Query().Get("accessorId")
	if len(accessorId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "missing 'accessorId' query parameter")
		return
	}

	data, err := c.readBody(r.Body)
	if err != nil {
		c.errorResponse(w, http.StatusInternalServerError, "could not read request body")
		return
	}

	req, err := ParseProjectStatusReq(data)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	project, err := c.service.UpdateProjectStatus(r.Context(), accessorId, chi.URLParam(r, "projectId"), req.Status)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, project)
}

// GET /api/assessments/{assessmentId}
func (c *Controller) AssessmentDetail(w http.ResponseWriter, r *http.Request) {
	userId := r.URL.Query().Get("userId")
	if len(userId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "missing 'userId' query parameter")
		return
	}

	assessment, err := c.service.AssessmentDetail(r.Context(), userId, chi.URLParam(r, "assessmentId"))
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, assessment)
}

// PATCH /api/assessments/{assessmentId}
func (c *Controller) EditAssessment(w http.ResponseWriter, r *http.Request) {
	accessorId := r.URL.Query().Get("accessorId")
	if len(accessorId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "missing 'accessorId' query parameter")
		return
	}

	data, err := c.readBody(r.Body)
	if err != nil {
		c.errorResponse(w, http.StatusInternalServerError, "could not read request body")
		return
	}

	changes, err := ParseChangeReq(data)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	assessment, err := c.service.UpdateAssessment(r.Context(), accessorId, chi.URLParam(r, "assessmentId"), changes)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, assessment)
}

//// Notifications

// GET /api/notifications
func (c *Controller) Notifications(w http.ResponseWriter, r *http.Request) {
	recipient, ok := c.getRecipient(w, r)
	if !ok {
		return
	}

	notifications, err := c.service.Notifications(r.Context(), recipient)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, notifications)
}

// PUT /api/notifications/{notificationId}/read
func (c *Controller) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	recipient, ok := c.getRecipient(w, r)
	if !ok {
		return
	}

	err := c.service.MarkNotificationRead(r.Context(), chi.URLParam(r, "notificationId"), recipient)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

//// Payments

// POST /api/payments/session
func (c *Controller) NewPaymentSession(w http.ResponseWriter, r *http.Request) {
	clientId := r.URL.Query().Get("clientId")
	if len(clientId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "missing 'clientId' query parameter")
		return
	}

	data, err := c.readBody(r.Body)
	if err != nil {
		c.errorResponse(w, http.StatusInternalServerError, "could not read request body")
		return
	}

	req, err := ParsePaymentSessionReq(data)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	payment, err := c.service.CreatePaymentSession(r.Context(), clientId, req.BidId)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, payment)
}

// GET /api/jobs/{jobId}/payments
func (c *Controller) JobPayments(w http.ResponseWriter, r *http.Request) {
	clientId := r.URL.Query().Get("clientId")
	if len(clientId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "missing 'clientId' query parameter")
		return
	}

	payments, err := c.service.JobPayments(r.Context(), clientId, chi.URLParam(r, "jobId"))
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, payments)
}

//// Admin

// GET /api/admin/stats
func (c *Controller) AdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.service.AdminStats(r.Context())
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, stats)
}

// GET /api/admin/work
func (c *Controller) AdminWork(w http.ResponseWriter, r *http.Request) {
	summaries, err := c.service.AdminWork(r.Context())
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, summaries)
}

//// Utils

func (c *Controller) placeBid(w http.ResponseWriter, r *http.Request, jobId, quoteId *string) {
	data, err := c.readBody(r.Body)
	if err != nil {
		c.errorResponse(w, http.StatusInternalServerError, "could not read request body")
		return
	}

	req, err := ParseNewBidReq(data)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	bid, err := c.service.PlaceBid(r.Context(), models.Bid{
		Amount:         req.Amount,
		Availability:   req.Availability,
		VATRegistered:  req.VATRegistered,
		SEAIRegistered: req.SEAIRegistered,
		Insured:        req.Insured,
		AccessorId:     req.AccessorId,
		JobId:          jobId,
		QuoteId:        quoteId,
	})
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, bid)
}

func (c *Controller) lowestBid(w http.ResponseWriter, r *http.Request, jobId, quoteId string) {
	bid, found, err := c.service.LowestBid(r.Context(), jobId, quoteId)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}
	if !found {
		c.errorResponse(w, http.StatusNotFound, "no bids placed yet")
		return
	}

	c.marshalResponse(w, bid)
}

func (c *Controller) getRecipient(w http.ResponseWriter, r *http.Request) (models.PartyRef, bool) {
	query := r.URL.Query()

	recipient := models.PartyRef{
		Kind: models.UserKind(query.Get("kind")),
		Id:   query.Get("userId"),
	}

	if !models.ValidUserKind(recipient.Kind) {
		c.errorResponse(w, http.StatusBadRequest, "invalid 'kind' query parameter: "+query.Get("kind"))
		return recipient, false
	}
	if len(recipient.Id) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "missing 'userId' query parameter")
		return recipient, false
	}

	return recipient, true
}

func (c *Controller) serviceErrorResponse(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		c.errorResponse(w, http.StatusBadRequest, "supplied data failed validation")
	case errors.Is(err, models.ErrForbidden):
		c.errorResponse(w, http.StatusForbidden, "user has no permission for requested action")
	case errors.Is(err, models.ErrNoUser):
		c.errorResponse(w, http.StatusNotFound, "requested user does not exist")
	case errors.Is(err, models.ErrNoJob):
		c.errorResponse(w, http.StatusNotFound, "requested job does not exist")
	case errors.Is(err, models.ErrNoQuote):
		c.errorResponse(w, http.StatusNotFound, "requested quote does not exist")
	case errors.Is(err, models.ErrNoBid):
		c.errorResponse(w, http.StatusNotFound, "requested bid does not exist")
	case errors.Is(err, models.ErrNoProject):
		c.errorResponse(w, http.StatusNotFound, "requested project does not exist")
	case errors.Is(err, models.ErrNoAssessment):
		c.errorResponse(w, http.StatusNotFound, "requested assessment does not exist")
	case errors.Is(err, models.ErrNoNotification):
		c.errorResponse(w, http.StatusNotFound, "requested notification does not exist")
	case errors.Is(err, models.ErrAlreadyAccepted):
		c.errorResponse(w, http.StatusConflict, "job already has an accepted bid")
	case errors.Is(err, models.ErrInvalidState):
		c.errorResponse(w, http.StatusConflict, "entity is in the wrong state for the requested action")
	case errors.Is(err, models.ErrPaymentGateway):
		c.errorResponse(w, http.StatusBadGateway, "payment provider is unavailable")
	default:
		log.Println("controller:", err)
		c.errorResponse(w, http.StatusInternalServerError, "internal server error: "+err.Error())
	}
}

func (c *Controller) errorResponse(w http.ResponseWriter, status int, text string) {
	w.WriteHeader(status)

	data, err := json.Marshal(ErrorResponse{Reason: text})
	if err != nil {
		log.Printf("controller.Controller.errorResponse: %s", err)
		return
	}

	_, err = w.Write(data)
	if err != nil {
		log.Printf("controller.Controller.errorResponse: %s", err)
		return
	}
}

func (c *Controller) marshalResponse(w http.ResponseWriter, data any) {
	d, err := json.Marshal(data)
	if err != nil {
		c.errorResponse(w, http.StatusInternalServerError, "could not marshal response data")
		return
	}

	_, err = w.Write(d)
	if err != nil {
		c.errorResponse(w, http.StatusInternalServerError, "could not write response data")
		return
	}
}

func (c *Controller) readBody(src io.ReadCloser) ([]byte, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	src.Close()
	return data, nil
}
