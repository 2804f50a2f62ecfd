package repository

import (
	"context"
	"fmt"

	"berbook/internal/models"
)

// AcceptBid performs the acceptance transition as one transaction: the job
// row is locked, the duplicate-acceptance guard is checked, the job status
// flips to in_progress, and the project plus its assessment are inserted.
// Either everything commits or nothing does.
func (repo *Repository) AcceptBid(ctx context.Context, jobId string, bid models.Bid) (models.Project, models.Assessment, error) {
	var project models.Project
	var assessment models.Assessment

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return project, assessment, fmt.Errorf("repository.Repository.AcceptBid: failed to start transaction: %w", err)
	}

	var job models.Job
	err = tx.GetContext(ctx, &job, "SELECT * FROM jobs WHERE id = $1 FOR UPDATE", jobId)
	if err != nil {
		return project, assessment, fmt.Errorf("repository.Repository.AcceptBid: %w", wrapRollbackErr(tx, err))
	}

	var active int
	err = tx.GetContext(ctx, &active, `
	SELECT COUNT(1) FROM projects
	WHERE job_id = $1 AND status IN ('in_progress', 'completed')
	`, jobId)
	if err != nil {
		return project, assessment, fmt.Errorf("repository.Repository.AcceptBid: %w", wrapRollbackErr(tx, err))
	}
	if active > 0 {
		return project, assessment, wrapRollbackErr(tx, models.ErrAlreadyAccepted)
	}

	// The job may have moved on since the bid was placed, e.g. completed
	// through the edit endpoint. Acceptance only applies to pending jobs;
	// anything else would regress a forward-only status.
	if job.Status != models.WorkPending {
		return project, assessment, wrapRollbackErr(tx, models.ErrInvalidState)
	}

	_, err = tx.ExecContext(ctx, "UPDATE jobs SET status = 'in_progress', updated_at = CURRENT_TIMESTAMP WHERE id = $1", jobId)
	if err != nil {
		return project, assessment, fmt.Errorf("repository.Repository.AcceptBid: %w", wrapRollbackErr(tx, err))
	}

	err = tx.GetContext(ctx, &project, `
	INSERT INTO projects (job_id, client_id, accessor_id, status, start_date)
	VALUES ($1, $2, $3, 'in_progress', CURRENT_TIMESTAMP)
	RETURNING *
	`, jobId, job.ClientId, bid.AccessorId)
	if err != nil {
		return project, assessment, fmt.Errorf("repository.Repository.AcceptBid: %w", wrapRollbackErr(tx, err))
	}

	err = tx.GetContext(ctx, &assessment, `
	INSERT INTO assessments (project_id, client_id, accessor_id)
	VALUES ($1, $2, $3)
	RETURNING *
	`, project.Id, job.ClientId, bid.AccessorId)
	if err != nil {
		return project, assessment, fmt.Errorf("repository.Repository.AcceptBid: %w", wrapRollbackErr(tx, err))
	}

	err = tx.Commit()
	if err != nil {
		return project, assessment, fmt.Errorf("repository.Repository.AcceptBid: failed to commit transaction: %w", err)
	}

	return project, assessment, nil
}

func (repo *Repository) ProjectByID(ctx context.Context, id string) (models.Project, error) {
	var project models.Project
	err := repo.db.GetContext(ctx, &project, "SELECT * FROM projects WHERE id = $1", id)
	if err != nil {
		return project, fmt.Errorf("repository.Repository.ProjectByID: %w", err)
	}
	return project, nil
}

func (repo *Repository) ProjectsByAccessor(ctx context.Context, accessorId string) ([]models.Project, error) {
	var projects []models.Project
	err := repo.db.SelectContext(ctx, &projects, "SELECT * FROM projects WHERE accessor_id = $1 ORDER BY created_at DESC", accessorId)
	if err != nil {
		return nil, fmt.Errorf("repository.Repository.ProjectsByAccessor: %w", err)
	}
	return projects, nil
}

func (repo *Repository) UpdateProject(ctx context.Context, project models.Project) error {
	_, err := repo.db.NamedExecContext(ctx, `
	UPDATE projects SET
		status = :status,
		start_date = :start_date,
		end_date = :end_date,
		updated_at = CURRENT_TIMESTAMP
	WHERE id = :id
	`, project)
	if err != nil {
		return fmt.Errorf("repository.Repository.UpdateProject: %w", err)
	}
	return nil
}

//// Assessments

func (repo *Repository) AssessmentByID(ctx context.Context, id string) (models.Assessment, error) {
	var assessment models.Assessment
	err := repo.db.GetContext(ctx, &assessment, "SELECT * FROM assessments WHERE id = $1", id)
	if err != nil {
		return assessment, fmt.Errorf("repository.Repository.AssessmentByID: %w", err)
	}
	return assessment, nil
}

func (repo *Repository) AssessmentIDsByProject(ctx context.Context, projectId string) ([]string, error) {
	var ids []string
	err := repo.db.SelectContext(ctx, &ids, "SELECT id FROM assessments WHERE project_id = $1", projectId)
	if err != nil {
		return nil, fmt.Errorf("repository.Repository.AssessmentIDsByProject: %w", err)
	}
	return ids, nil
}

func (repo *Repository) UpdateAssessment(ctx context.Context, assessment models.Assessment) error {
	_, err := repo.db.NamedExecContext(ctx, `
	UPDATE assessments SET
		project_id = :project_id,
		quote_id = :quote_id,
		client_id = :client_id,
		accessor_id = :accessor_id,
		assessor_name = :assessor_name,
		ber_reg_no = :ber_reg_no,
		survey_date = :survey_date,
		num_storeys = :num_storeys,
		num_bedrooms = :num_bedrooms,
		num_extensions = :num_extensions,
		property_address = :property_address,
		eircode = :eircode,
		mprn = :mprn,
		detached_house = :detached_house,
		semi_detached_house = :semi_detached_house,
		end_of_terrace = :end_of_terrace,
		mid_terrace = :mid_terrace,
		ground_floor_apartment = :ground_floor_apartment,
		mid_floor_apartment = :mid_floor_apartment,
		top_floor_apartment = :top_floor_apartment,
		basement_apartment = :basement_apartment,
		maisonette = :maisonette,
		pre_1900 = :pre_1900,
		y1900_1929 = :y1900_1929,
		y1930_1949 = :y1930_1949,
		y1950_1966 = :y1950_1966,
		y1967_1977 = :y1967_1977,
		y1978_1982 = :y1978_1982,
		y1983_1993 = :y1983_1993,
		y1994_1999 = :y1994_1999,
		from_2000_onwards = :from_2000_onwards,
		new_final_dwelling = :new_final_dwelling,
		existing_dwelling = :existing_dwelling,
		new_owner_occupation = :new_owner_occupation,
		sale = :sale,
		private_letting = :private_letting,
		social_housing_letting = :social_housing_letting,
		grant_support = :grant_support,
		major_renovation = :major_renovation,
		purpose_other = :purpose_other,
		purpose_other_text = :purpose_other_text,
		wall_stone = :wall_stone,
		wall_solid_brick = :wall_solid_brick,
		wall_cavity = :wall_cavity,
		wall_solid_concrete = :wall_solid_concrete,
		wall_hollow_block = :wall_hollow_block,
		wall_timber_frame = :wall_timber_frame,
		wall_other = :wall_other,
		wall_other_text = :wall_other_text,
		wall_insulation_thickness = :wall_insulation_thickness,
		roof_pitched_insulation_joists = :roof_pitched_insulation_joists,
		roof_pitched_insulation_rafters = :roof_pitched_insulation_rafters,
		roof_flat_insulation_integral = :roof_flat_insulation_integral,
		room_in_roof = :room_in_roof,
		no_heat_loss_roof = :no_heat_loss_roof,
		roof_other = :roof_other,
		roof_other_text = :roof_other_text,
		roof_insulation_thickness = :roof_insulation_thickness,
		roof_insulation_fibre = :roof_insulation_fibre,
		roof_insulation_warmcell = :roof_insulation_warmcell,
		roof_insulation_eps = :roof_insulation_eps,
		roof_insulation_dense = :roof_insulation_dense,
		floor_solid = :floor_solid,
		floor_suspended = :floor_suspended,
		updated_at = CURRENT_TIMESTAMP
	WHERE id = :id
	`, assessment)
	if err != nil {
		return fmt.Errorf("repository.Repository.UpdateAssessment: %w", err)
	}
	return nil
}
