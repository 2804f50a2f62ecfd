package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"berbook/internal/models"
)

//// Quotes

// AddQuote inserts an empty pending quote together with its pre-project
// assessment, in one transaction.
func (repo *Repository) AddQuote(ctx context.Context) (models.Quote, models.Assessment, error) {
	var quote models.Quote
	var assessment models.Assessment

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return quote, assessment, fmt.Errorf("repository.Repository.AddQuote: failed to start transaction: %w", err)
	}

	err = tx.GetContext(ctx, &quote, "INSERT INTO quotes DEFAULT VALUES RETURNING *")
	if err != nil {
		return quote, assessment, fmt.Errorf("repository.Repository.AddQuote: %w", wrapRollbackErr(tx, err))
	}

	err = tx.GetContext(ctx, &assessment, "INSERT INTO assessments (quote_id) VALUES ($1) RETURNING *", quote.Id)
	if err != nil {
		return quote, assessment, fmt.Errorf("repository.Repository.AddQuote: %w", wrapRollbackErr(tx, err))
	}

	err = tx.Commit()
	if err != nil {
		return quote, assessment, fmt.Errorf("repository.Repository.AddQuote: failed to commit transaction: %w", err)
	}

	return quote, assessment, nil
}

func (repo *Repository) QuoteByID(ctx context.Context, id string) (models.Quote, error) {
	var quote models.Quote
	err := repo.db.GetContext(ctx, &quote, "SELECT * FROM quotes WHERE id = $1", id)
	if err != nil {
		return quote, fmt.Errorf("repository.Repository.QuoteByID: %w", err)
	}
	return quote, nil
}

func (repo *Repository) UpdateQuote(ctx context.Context, quote models.Quote) error {
	_, err := repo.db.NamedExecContext(ctx, `
	UPDATE quotes SET
		status = :status,
		building_type = :building_type,
		property_type = :property_type,
		property_size = :property_size,
		bedrooms = :bedrooms,
		additional_features = :additional_features,
		heat_pump_installed = :heat_pump_installed,
		county = :county,
		nearest_town = :nearest_town,
		ber_purpose = :ber_purpose,
		preferred_date = :preferred_date,
		preferred_time = :preferred_time,
		contact_name = :contact_name,
		contact_email = :contact_email,
		contact_mobile = :contact_mobile,
		updated_at = CURRENT_TIMESTAMP
	WHERE id = :id
	`, quote)
	if err != nil {
		return fmt.Errorf("repository.Repository.UpdateQuote: %w", err)
	}
	return nil
}

func (repo *Repository) PendingQuotesByCounty(ctx context.Context, county string) ([]models.Quote, error) {
	var quotes []models.Quote
	err := repo.db.SelectContext(ctx, &quotes, `
	SELECT * FROM quotes
	WHERE status = 'pending' AND LOWER(county) = LOWER($1)
	ORDER BY created_at DESC
	`, county)
	if err != nil {
		return nil, fmt.Errorf("repository.Repository.PendingQuotesByCounty: %w", err)
	}
	return quotes, nil
}

//// Jobs

func (repo *Repository) AddJob(ctx context.Context, clientId string) (models.Job, error) {
	var job models.Job
	err := repo.db.GetContext(ctx, &job, "INSERT INTO jobs (client_id) VALUES ($1) RETURNING *", clientId)
	if err != nil {
		return job, fmt.Errorf("repository.Repository.AddJob: %w", err)
	}
	return job, nil
}

func (repo *Repository) JobByID(ctx context.Context, id string) (models.Job, error) {
	var job models.Job
	err := repo.db.GetContext(ctx, &job, "SELECT * FROM jobs WHERE id = $1", id)
	if err != nil {
		return job, fmt.Errorf("repository.Repository.JobByID: %w", err)
	}
	return job, nil
}

func (repo *Repository) UpdateJob(ctx context.Context, job models.Job) error {
	_, err := repo.db.NamedExecContext(ctx, `
	UPDATE jobs SET
		status = :status,
		building_type = :building_type,
		property_type = :property_type,
		property_size = :property_size,
		bedrooms = :bedrooms,
		additional_features = :additional_features,
		heat_pump_installed = :heat_pump_installed,
		county = :county,
		nearest_town = :nearest_town,
		ber_purpose = :ber_purpose,
		preferred_date = :preferred_date,
		preferred_time = :preferred_time,
		contact_name = :contact_name,
		contact_email = :contact_email,
		contact_mobile = :contact_mobile,
		updated_at = CURRENT_TIMESTAMP
	WHERE id = :id
	`, job)
	if err != nil {
		return fmt.Errorf("repository.Repository.UpdateJob: %w", err)
	}
	return nil
}

func (repo *Repository) JobsByClient(ctx context.Context, clientId string) ([]models.Job, error) {
	var jobs []models.Job
	err := repo.db.SelectContext(ctx, &jobs, "SELECT * FROM jobs WHERE client_id = $1 ORDER BY created_at DESC", clientId)
	if err != nil {
		return nil, fmt.Errorf("repository.Repository.JobsByClient: %w", err)
	}
	return jobs, nil
}

func (repo *Repository) PendingJobsByCounty(ctx context.Context, county string) ([]models.Job, error) {
	var jobs []models.Job
	err := repo.db.SelectContext(ctx, &jobs, `
	SELECT * FROM jobs
	WHERE status = 'pending' AND LOWER(county) = LOWER($1)
	ORDER BY created_at DESC
	`, county)
	if err != nil {
		return nil, fmt.Errorf("repository.Repository.PendingJobsByCounty: %w", err)
	}
	return jobs, nil
}

// SearchJobs filters jobs by the optional property attributes of the search
// form; empty filter values are skipped.
func (repo *Repository) SearchJobs(ctx context.Context, filter models.JobFilter) ([]models.Job, error) {
	query := "SELECT * FROM jobs $conditions$ ORDER BY created_at DESC"

	conditions := make([]string, 0, 5)
	params := make([]interface{}, 0, 5)

	addCondition := func(column, value string) {
		if len(value) == 0 {
			return
		}
		params = append(params, "%"+value+"%")
		conditions = append(conditions, column+" ILIKE $"+strconv.Itoa(len(params)))
	}

	addCondition("property_type", filter.PropertyType)
	addCondition("property_size", filter.PropertySize)
	addCondition("bedrooms", filter.Bedrooms)
	addCondition("county", filter.County)
	addCondition("nearest_town", filter.NearestTown)

	condStr := ""
	if len(conditions) > 0 {
		condStr = "WHERE " + strings.Join(conditions, " AND ")
	}
	query = strings.Replace(query, "$conditions$", condStr, 1)

	var jobs []models.Job
	err := repo.db.SelectContext(ctx, &jobs, query, params...)
	if err != nil {
		return nil, fmt.Errorf("repository.Repository.SearchJobs: %w", err)
	}
	return jobs, nil
}

// UpsertJobFromQuote copies a completed quote's descriptive fields onto the
// job derived from it. The job is keyed on its source quote id, so repeated
// promotion of the same quote updates the one job instead of inserting
// another.
func (repo *Repository) UpsertJobFromQuote(ctx context.Context, clientId string, quote models.Quote) (models.Job, error) {
	var job models.Job
	err := repo.db.GetContext(ctx, &job, `
	INSERT INTO jobs (
		client_id, quote_id, status, building_type, property_type, property_size,
		bedrooms, additional_features, heat_pump_installed, county, nearest_town,
		ber_purpose, preferred_date, preferred_time, contact_name, contact_email, contact_mobile)
	VALUES ($1, $2, 'pending', $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	ON CONFLICT (quote_id) DO UPDATE SET
		client_id = EXCLUDED.client_id,
		status = 'pending',
		building_type = EXCLUDED.building_type,
		property_type = EXCLUDED.property_type,
		property_size = EXCLUDED.property_size,
		bedrooms = EXCLUDED.bedrooms,
		additional_features = EXCLUDED.additional_features,
		heat_pump_installed = EXCLUDED.heat_pump_installed,
		county = EXCLUDED.county,
		nearest_town = EXCLUDED.nearest_town,
		ber_purpose = EXCLUDED.ber_purpose,
		preferred_date = EXCLUDED.preferred_date,
		preferred_time = EXCLUDED.preferred_time,
		contact_name = EXCLUDED.contact_name,
		contact_email = EXCLUDED.contact_email,
		contact_mobile = EXCLUDED.contact_mobile,
		updated_at = CURRENT_TIMESTAMP
	RETURNING *
	`, clientId, quote.Id, quote.BuildingType, quote.PropertyType, quote.PropertySize,
		quote.Bedrooms, quote.AdditionalFeatures, quote.HeatPumpInstalled, quote.County,
		quote.NearestTown, quote.BerPurpose, quote.PreferredDate, quote.PreferredTime,
		quote.ContactName, quote.ContactEmail, quote.ContactMobile)
	if err != nil {
		return job, fmt.Errorf("repository.Repository.UpsertJobFromQuote: %w", err)
	}
	return job, nil
}

//// Admin summaries

func (repo *Repository) WorkSummaries(ctx context.Context) ([]models.WorkSummary, error) {
	var summaries []models.WorkSummary
	err := repo.db.SelectContext(ctx, &summaries, `
	SELECT id, 'job' AS kind, status, county, building_type, property_size, bedrooms,
		heat_pump_installed, ber_purpose, additional_features, preferred_date, created_at
	FROM jobs
	UNION ALL
	SELECT id, 'quote' AS kind, status, county, building_type, property_size, bedrooms,
		heat_pump_installed, ber_purpose, additional_features, preferred_date, created_at
	FROM quotes
	ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("repository.Repository.WorkSummaries: %w", err)
	}
	return summaries, nil
}
