package service

import (
	"context"
	"errors"
	"time"

	"bloodlink-backend/internal/domain"
	"bloodlink-backend/internal/events"
	"bloodlink-backend/internal/logger"
	"bloodlink-backend/internal/metrics"
	"bloodlink-backend/internal/repository"
)

type requestService struct {
	repos     repository.Repositories
	tx        repository.Transactor
	notifier  *Notifier
	compat    domain.Compatibility
	publisher events.Publisher
	metrics   *metrics.Metrics
	now       func() time.Time
}

func NewRequestService(
	repos repository.Repositories,
	tx repository.Transactor,
	notifier *Notifier,
	compat domain.Compatibility,
	publisher events.Publisher,
	m *metrics.Metrics,
) RequestService {
	return newRequestService(repos, tx, notifier, compat, publisher, m)
}

func newRequestService(
	repos repository.Repositories,
	tx repository.Transactor,
	notifier *Notifier,
	compat domain.Compatibility,
	publisher events.Publisher,
	m *metrics.Metrics,
) *requestService {
	if compat == nil {
		compat = domain.ExactMatch
	}
	return &requestService{
		repos:     repos,
		tx:        tx,
		notifier:  notifier,
		compat:    compat,
		publisher: publisher,
		metrics:   m,
		now:       time.Now,
	}
}

func (s *requestService) CreateRequest(ctx context.Context, recipientUserID int32, bloodGroup string, quantity int32) (*domain.BloodRequest, error) {
	logger.EnterMethod("requestService.CreateRequest", "recipientUserID", recipientUserID, "bloodGroup", bloodGroup, "quantity", quantity)

	if recipientUserID <= 0 {
		return nil, domain.Validation("recipient user id must be positive")
	}
	group, err := domain.ParseBloodGroup(bloodGroup)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateQuantity(quantity); err != nil {
		return nil, err
	}

	now := s.now()
	var (
		created *domain.BloodRequest
		matched int
		sent    int
	)
	err = s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		recipient, err := repos.Recipients.GetByUserID(ctx, recipientUserID)
		if errors.Is(err, repository.ErrNotFound) {
			return domain.InvalidOperation("recipient profile not found")
		}
		if err != nil {
			return err
		}

		req := &domain.BloodRequest{
			RecipientID:       recipient.ID,
			BloodGroupNeeded:  group,
			Quantity:          quantity,
			RequestDate:       now,
			Status:            domain.RequestStatusPending,
			RecipientName:     recipient.Name,
			RecipientHospital: recipient.Hospital,
			RecipientUserID:   recipient.UserID,
		}
		if err := repos.Requests.Create(ctx, req); err != nil {
			return err
		}

		candidates, err := repos.Donors.ListByBloodGroups(ctx, domain.DonorGroupsFor(group, s.compat))
		if err != nil {
			return err
		}
		donors := domain.MatchDonors(candidates, group, now, s.compat)

		fan := s.notifier.WithRepos(repos)
		for _, d := range donors {
			link := &domain.DonorRequestLink{
				DonorID:        d.ID,
				RequestID:      req.ID,
				LinkedAt:       now,
				ResponseStatus: domain.ResponseStatusPending,
			}
			if err := repos.Links.Create(ctx, link); err != nil {
				return err
			}
			fan.TryNotify(ctx, d.UserID, donorMatchedMessage(req))
		}
		fan.TryNotifyAdmins(ctx, adminRequestCreatedMessage(req, len(donors)))

		created, matched, sent = req, len(donors), fan.Sent()
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("requestService.CreateRequest", err, "recipientUserID", recipientUserID)
		return nil, err
	}

	s.metrics.RequestsCreated.Inc()
	s.metrics.DonorsMatched.Observe(float64(matched))
	s.metrics.NotificationsSent.Add(float64(sent))

	ev := events.NewRequestEvent(events.RequestCreated, created, now)
	ev.MatchedDonors = matched
	s.publish(ctx, ev)

	logger.ExitMethod("requestService.CreateRequest", "requestID", created.ID, "matchedDonors", matched)
	return created, nil
}

func (s *requestService) UpdateStatus(ctx context.Context, requestID int32, status string, override bool) (*domain.BloodRequest, error) {
	logger.EnterMethod("requestService.UpdateStatus", "requestID", requestID, "status", status, "override", override)

	if requestID <= 0 {
		return nil, domain.Validation("request id must be positive")
	}
	newStatus, err := domain.ParseRequestStatus(status)
	if err != nil {
		return nil, err
	}

	var (
		req     *domain.BloodRequest
		changed bool
	)
	err = s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		current, err := repos.Requests.GetForUpdate(ctx, requestID)
		if err != nil {
			return requestNotFound(err, requestID)
		}
		if err := domain.CheckTransition(current.Status, newStatus, override); err != nil {
			return err
		}
		req = current
		if current.Status == newStatus && newStatus.Terminal() {
			return nil
		}
		if err := repos.Requests.UpdateStatus(ctx, requestID, newStatus); err != nil {
			return err
		}
		req.Status = newStatus
		changed = true
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("requestService.UpdateStatus", err, "requestID", requestID)
		return nil, err
	}
	if !changed {
		logger.ExitMethod("requestService.UpdateStatus", "requestID", requestID, "unchanged", true)
		return req, nil
	}

	s.metrics.StatusTransitions.WithLabelValues(string(newStatus)).Inc()

	// Status is committed; notifications below never undo it.
	s.notifier.TryNotify(ctx, req.RecipientUserID, recipientStatusMessage(req))
	if newStatus == domain.RequestStatusFulfilled {
		s.notifier.TryNotifyAdmins(ctx, adminSelfFulfilledMessage(req))
	}
	s.publish(ctx, events.NewRequestEvent(events.RequestUpdated, req, s.now()))

	logger.ExitMethod("requestService.UpdateStatus", "requestID", requestID, "status", newStatus)
	return req, nil
}

func (s *requestService) FulfillByDonor(ctx context.Context, requestID, donorID, bloodBankID int32) (*domain.BloodRequest, error) {
	logger.EnterMethod("requestService.FulfillByDonor", "requestID", requestID, "donorID", donorID, "bloodBankID", bloodBankID)

	if requestID <= 0 || donorID <= 0 {
		return nil, domain.Validation("request id and donor id must be positive")
	}
	if bloodBankID < 0 {
		return nil, domain.Validation("blood bank id must not be negative")
	}

	now := s.now()
	var (
		req   *domain.BloodRequest
		bank  *domain.BloodBank
		donor *domain.DonorProfile
		sent  int
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		req, err = repos.Requests.GetForUpdate(ctx, requestID)
		if err != nil {
			return requestNotFound(err, requestID)
		}
		if req.Status.Terminal() {
			return domain.InvalidOperation("request %d is already %s", requestID, req.Status)
		}

		donor, err = repos.Donors.GetByID(ctx, donorID)
		if err != nil {
			return donorNotFound(err, donorID)
		}

		bank, err = s.selectBank(ctx, repos, bloodBankID)
		if err != nil {
			return err
		}

		if err := repos.Requests.UpdateStatus(ctx, req.ID, domain.RequestStatusFulfilled); err != nil {
			return err
		}
		req.Status = domain.RequestStatusFulfilled

		record := &domain.DonationRecord{
			DonorID:      donor.ID,
			BloodBankID:  bank.ID,
			RequestID:    &req.ID,
			DonationDate: now,
			Quantity:     req.Quantity,
			Status:       domain.DonationStatusCompleted,
		}
		if err := repos.Donations.Create(ctx, record); err != nil {
			return err
		}

		donor.LastDonationDate = &now
		if err := repos.Donors.Update(ctx, donor); err != nil {
			return err
		}

		if _, err := repos.Stock.AddUnits(ctx, bank.ID, donor.BloodGroup, req.Quantity, now); err != nil {
			return err
		}

		// A failed notification never undoes the fulfillment.
		fan := s.notifier.WithRepos(repos)
		fan.TryNotify(ctx, donor.UserID, donorThankYouMessage(req, bank))
		if req.RecipientUserID > 0 {
			fan.TryNotify(ctx, req.RecipientUserID, recipientFulfilledByDonorMessage(req))
		}
		sent = fan.Sent()
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("requestService.FulfillByDonor", err, "requestID", requestID, "donorID", donorID)
		return nil, err
	}

	s.metrics.Fulfillments.Inc()
	s.metrics.StatusTransitions.WithLabelValues(string(domain.RequestStatusFulfilled)).Inc()
	s.metrics.StockUnitsAdded.WithLabelValues(string(donor.BloodGroup)).Add(float64(req.Quantity))
	s.metrics.NotificationsSent.Add(float64(sent))

	ev := events.NewRequestEvent(events.RequestFulfilled, req, now)
	ev.DonorID = donor.ID
	ev.BloodBankID = bank.ID
	s.publish(ctx, ev)

	logger.ExitMethod("requestService.FulfillByDonor", "requestID", req.ID, "bankID", bank.ID)
	return req, nil
}

// selectBank resolves an explicit bank id, or the lowest-id bank when id is 0.
func (s *requestService) selectBank(ctx context.Context, repos repository.Repositories, id int32) (*domain.BloodBank, error) {
	if id > 0 {
		bank, err := repos.Banks.GetByID(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NotFound("blood bank %d not found", id)
		}
		return bank, err
	}
	bank, err := repos.Banks.GetFirst(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, domain.InvalidOperation("no blood bank available")
	}
	return bank, err
}

func (s *requestService) DonorRespond(ctx context.Context, requestID, donorID int32, response string) (*domain.DonorRequestLink, error) {
	logger.EnterMethod("requestService.DonorRespond", "requestID", requestID, "donorID", donorID, "response", response)

	if requestID <= 0 || donorID <= 0 {
		return nil, domain.Validation("request id and donor id must be positive")
	}
	answer, err := domain.ParseDonorResponse(response)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var (
		req   *domain.BloodRequest
		donor *domain.DonorProfile
		link  *domain.DonorRequestLink
		moved bool
	)
	err = s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		req, err = repos.Requests.GetForUpdate(ctx, requestID)
		if err != nil {
			return requestNotFound(err, requestID)
		}
		donor, err = repos.Donors.GetByID(ctx, donorID)
		if err != nil {
			return donorNotFound(err, donorID)
		}
		if req.Status.Terminal() {
			return domain.InvalidOperation("request %d is already %s", requestID, req.Status)
		}

		link, err = repos.Links.SaveResponse(ctx, donorID, requestID, answer.Status(), now)
		if err != nil {
			return err
		}

		if answer == domain.DonorResponseAccept && req.Status != domain.RequestStatusApproved {
			if err := repos.Requests.UpdateStatus(ctx, requestID, domain.RequestStatusApproved); err != nil {
				return err
			}
			req.Status = domain.RequestStatusApproved
			moved = true
		}
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("requestService.DonorRespond", err, "requestID", requestID, "donorID", donorID)
		return nil, err
	}

	s.metrics.DonorResponses.WithLabelValues(string(answer)).Inc()
	if moved {
		s.metrics.StatusTransitions.WithLabelValues(string(domain.RequestStatusApproved)).Inc()
	}

	if answer == domain.DonorResponseAccept {
		s.notifier.TryNotifyAdmins(ctx, donorAcceptedMessage(req, donor))
		s.notifier.TryNotify(ctx, req.RecipientUserID, recipientDonorAcceptedMessage(req))
	} else {
		s.notifier.TryNotifyFirstAdmin(ctx, donorDeclinedLogMessage(req, donor, now))
	}

	ev := events.NewRequestEvent(events.DonorResponded, req, now)
	ev.DonorID = donorID
	ev.ResponseStatus = link.ResponseStatus
	s.publish(ctx, ev)

	logger.ExitMethod("requestService.DonorRespond", "requestID", requestID, "responseStatus", link.ResponseStatus)
	return link, nil
}

func (s *requestService) GetRequest(ctx context.Context, requestID int32) (*domain.BloodRequest, error) {
	if requestID <= 0 {
		return nil, domain.Validation("request id must be positive")
	}
	req, err := s.repos.Requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, requestNotFound(err, requestID)
	}
	return req, nil
}

func (s *requestService) ListRequests(ctx context.Context, filter domain.RequestFilter) ([]domain.BloodRequest, int32, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}
	return s.repos.Requests.List(ctx, filter)
}

func (s *requestService) ListDonorRequests(ctx context.Context, donorID int32) ([]domain.DonorRequestItem, error) {
	if donorID <= 0 {
		return nil, domain.Validation("donor id must be positive")
	}
	if _, err := s.repos.Donors.GetByID(ctx, donorID); err != nil {
		return nil, donorNotFound(err, donorID)
	}
	return s.repos.Links.ListByDonor(ctx, donorID)
}

// DeleteRequest removes a request and its donor links. Donation records keep
// their history with the request reference cleared.
func (s *requestService) DeleteRequest(ctx context.Context, requestID int32) error {
	if requestID <= 0 {
		return domain.Validation("request id must be positive")
	}
	return s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if _, err := repos.Requests.GetForUpdate(ctx, requestID); err != nil {
			return requestNotFound(err, requestID)
		}
		if err := repos.Links.DeleteByRequest(ctx, requestID); err != nil {
			return err
		}
		return repos.Requests.Delete(ctx, requestID)
	})
}

func (s *requestService) FindMatchingDonors(ctx context.Context, bloodGroup string) ([]domain.DonorView, error) {
	group, err := domain.ParseBloodGroup(bloodGroup)
	if err != nil {
		return nil, err
	}
	candidates, err := s.repos.Donors.ListByBloodGroups(ctx, domain.DonorGroupsFor(group, s.compat))
	if err != nil {
		return nil, err
	}
	now := s.now()
	donors := domain.MatchDonors(candidates, group, now, s.compat)
	views := make([]domain.DonorView, 0, len(donors))
	for _, d := range donors {
		views = append(views, domain.NewDonorView(d, now))
	}
	return views, nil
}

func (s *requestService) publish(ctx context.Context, ev events.RequestEvent) {
	if err := s.publisher.Publish(ctx, ev); err != nil {
		logger.Warn("Failed to publish request event", "type", ev.Type, "requestID", ev.RequestID, "error", err)
		s.metrics.EventPublishFailures.Inc()
	}
}

func requestNotFound(err error, id int32) error {
	if errors.Is(err, repository.ErrNotFound) {
		return domain.NotFound("blood request %d not found", id)
	}
	return err
}

func donorNotFound(err error, id int32) error {
	if errors.Is(err, repository.ErrNotFound) {
		return domain.NotFound("donor %d not found", id)
	}
	return err
}
