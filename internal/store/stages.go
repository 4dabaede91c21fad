package store

import (
	"context"
	"fmt"
	"time"

	"hiring-workers/internal/common/database"
	"hiring-workers/internal/models"
)

const initialEvaluationColumns = `id, application_id, position_id, eligibility, remarks, feedback,
	standard_education, standard_training, standard_experience,
	applicant_education, applicant_training, applicant_experience,
	increment_education, increment_training, increment_experience, evaluated_by, created_at`

func scanInitialEvaluation(r rowScanner) (*models.InitialEvaluation, error) {
	var e models.InitialEvaluation
	err := r.Scan(&e.ID, &e.ApplicationID, &e.PositionID, &e.Eligibility, &e.Remarks, &e.Feedback,
		&e.StandardEducation, &e.StandardTraining, &e.StandardExperience,
		&e.ApplicantEducation, &e.ApplicantTraining, &e.ApplicantExperience,
		&e.IncrementEducation, &e.IncrementTraining, &e.IncrementExperience, &e.EvaluatedBy, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Store) GetInitialEvaluation(ctx context.Context, id int64) (*models.InitialEvaluation, error) {
	e, err := scanInitialEvaluation(s.q.QueryRowContext(ctx,
		`SELECT `+initialEvaluationColumns+` FROM initial_evaluations WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "initial evaluation", id)
	}
	return e, nil
}

func (s *Store) InitialEvaluationForApplication(ctx context.Context, applicationID int64) (*models.InitialEvaluation, error) {
	e, err := scanInitialEvaluation(s.q.QueryRowContext(ctx,
		`SELECT `+initialEvaluationColumns+` FROM initial_evaluations WHERE application_id = $1`, applicationID))
	if err != nil {
		return nil, notFound(err, "initial evaluation for application", applicationID)
	}
	return e, nil
}

func (s *Store) InsertInitialEvaluation(ctx context.Context, e *models.InitialEvaluation) (*models.InitialEvaluation, error) {
	e.CreatedAt = time.Now().UTC()
	err := s.q.QueryRowContext(ctx, `
		INSERT INTO initial_evaluations (application_id, position_id, eligibility, remarks, feedback,
			standard_education, standard_training, standard_experience,
			applicant_education, applicant_training, applicant_experience,
			increment_education, increment_training, increment_experience, evaluated_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id`,
		e.ApplicationID, e.PositionID, e.Eligibility, e.Remarks, e.Feedback,
		e.StandardEducation, e.StandardTraining, e.StandardExperience,
		e.ApplicantEducation, e.ApplicantTraining, e.ApplicantExperience,
		e.IncrementEducation, e.IncrementTraining, e.IncrementExperience, e.EvaluatedBy, e.CreatedAt,
	).Scan(&e.ID)
	if database.IsUniqueViolation(err) {
		return nil, fmt.Errorf("%w: initial evaluation for application %d", ErrDuplicate, e.ApplicationID)
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

const assessmentScoreColumns = `id, initial_evaluation_id, school_id, education, training, experience,
	exam_rating, class_observation, non_class_observation, actual_score, assessed_by, created_at`

func scanAssessmentScore(r rowScanner) (*models.AssessmentScore, error) {
	var a models.AssessmentScore
	err := r.Scan(&a.ID, &a.InitialEvaluationID, &a.SchoolID, &a.Education, &a.Training, &a.Experience,
		&a.ExamRating, &a.ClassObservation, &a.NonClassObservation, &a.ActualScore, &a.AssessedBy, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) GetAssessmentScore(ctx context.Context, id int64) (*models.AssessmentScore, error) {
	a, err := scanAssessmentScore(s.q.QueryRowContext(ctx,
		`SELECT `+assessmentScoreColumns+` FROM assessment_scores WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "assessment score", id)
	}
	return a, nil
}

func (s *Store) AssessmentScoreForEvaluation(ctx context.Context, initialEvaluationID int64) (*models.AssessmentScore, error) {
	a, err := scanAssessmentScore(s.q.QueryRowContext(ctx,
		`SELECT `+assessmentScoreColumns+` FROM assessment_scores WHERE initial_evaluation_id = $1`, initialEvaluationID))
	if err != nil {
		return nil, notFound(err, "assessment score for initial evaluation", initialEvaluationID)
	}
	return a, nil
}

func (s *Store) InsertAssessmentScore(ctx context.Context, a *models.AssessmentScore) (*models.AssessmentScore, error) {
	a.CreatedAt = time.Now().UTC()
	err := s.q.QueryRowContext(ctx, `
		INSERT INTO assessment_scores (initial_evaluation_id, school_id, education, training, experience,
			exam_rating, class_observation, non_class_observation, actual_score, assessed_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`,
		a.InitialEvaluationID, a.SchoolID, a.Education, a.Training, a.Experience,
		a.ExamRating, a.ClassObservation, a.NonClassObservation, a.ActualScore, a.AssessedBy, a.CreatedAt,
	).Scan(&a.ID)
	if database.IsUniqueViolation(err) {
		return nil, fmt.Errorf("%w: assessment score for initial evaluation %d", ErrDuplicate, a.InitialEvaluationID)
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

const finalDeliberationColumns = `id, assessment_score_id, remarks, background_investigation, for_appointment,
	status_of_appointment, for_background_investigation, date_of_final_deliberation, finalized_by, created_at`

func (s *Store) FinalDeliberationForScore(ctx context.Context, assessmentScoreID int64) (*models.FinalDeliberation, error) {
	var f models.FinalDeliberation
	err := s.q.QueryRowContext(ctx,
		`SELECT `+finalDeliberationColumns+` FROM final_deliberations WHERE assessment_score_id = $1`, assessmentScoreID).
		Scan(&f.ID, &f.AssessmentScoreID, &f.Remarks, &f.BackgroundInvestigation, &f.ForAppointment,
			&f.StatusOfAppointment, &f.ForBackgroundInvestigation, &f.DateOfFinalDeliberation, &f.FinalizedBy, &f.CreatedAt)
	if err != nil {
		return nil, notFound(err, "final deliberation for assessment score", assessmentScoreID)
	}
	return &f, nil
}

func (s *Store) InsertFinalDeliberation(ctx context.Context, f *models.FinalDeliberation) (*models.FinalDeliberation, error) {
	f.CreatedAt = time.Now().UTC()
	err := s.q.QueryRowContext(ctx, `
		INSERT INTO final_deliberations (assessment_score_id, remarks, background_investigation,
			for_appointment, status_of_appointment, for_background_investigation,
			date_of_final_deliberation, finalized_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		f.AssessmentScoreID, f.Remarks, f.BackgroundInvestigation, f.ForAppointment, f.StatusOfAppointment,
		f.ForBackgroundInvestigation, f.DateOfFinalDeliberation, f.FinalizedBy, f.CreatedAt,
	).Scan(&f.ID)
	if database.IsUniqueViolation(err) {
		return nil, fmt.Errorf("%w: final deliberation for assessment score %d", ErrDuplicate, f.AssessmentScoreID)
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// RankAssessments lists the scored applications of a position, best first.
// Equal scores share a rank and the next rank skips (1, 1, 3).
func (s *Store) RankAssessments(ctx context.Context, positionID int64) ([]models.RankedAssessment, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT a.id, a.applicant_code, ap.name, a.status, sc.name, s.actual_score
		FROM assessment_scores s
		JOIN initial_evaluations ie ON ie.id = s.initial_evaluation_id
		JOIN applications a ON a.id = ie.application_id
		JOIN applicants ap ON ap.id = a.applicant_id
		JOIN schools sc ON sc.id = s.school_id
		WHERE a.position_id = $1
		ORDER BY s.actual_score DESC, a.applicant_code`, positionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.RankedAssessment{}
	for rows.Next() {
		var r models.RankedAssessment
		if err := rows.Scan(&r.ApplicationID, &r.ApplicantCode, &r.ApplicantName, &r.Status, &r.SchoolName, &r.ActualScore); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		if i > 0 && out[i].ActualScore.Equal(out[i-1].ActualScore) {
			out[i].Rank = out[i-1].Rank
			continue
		}
		out[i].Rank = i + 1
	}
	return out, nil
}
