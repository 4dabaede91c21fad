package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"hiring-workers/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var ErrSearchFailed = errors.New("SEARCH_FAILED")

// ApplicationsMapping is created by hiringctl migrate and at worker startup.
const ApplicationsMapping = `{
	"mappings": {
		"properties": {
			"applicationId": {"type": "long"},
			"applicantCode": {"type": "keyword", "fields": {"text": {"type": "text"}}},
			"applicantName": {"type": "text", "fields": {"raw": {"type": "keyword"}}},
			"applicantEmail": {"type": "keyword"},
			"positionId": {"type": "long"},
			"positionTitle": {"type": "text", "fields": {"raw": {"type": "keyword"}}},
			"status": {"type": "keyword"},
			"remarks": {"type": "keyword"},
			"actualScore": {"type": "scaled_float", "scaling_factor": 100},
			"createdAt": {"type": "date"},
			"updatedAt": {"type": "date"}
		}
	}
}`

// Document is the denormalized search view of one application.
type Document struct {
	ApplicationID  int64     `json:"applicationId"`
	ApplicantCode  string    `json:"applicantCode"`
	ApplicantName  string    `json:"applicantName"`
	ApplicantEmail string    `json:"applicantEmail,omitempty"`
	PositionID     int64     `json:"positionId"`
	PositionTitle  string    `json:"positionTitle"`
	Status         string    `json:"status"`
	Remarks        string    `json:"remarks,omitempty"`
	ActualScore    *float64  `json:"actualScore,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func DocumentFrom(d *models.ApplicationDetail) Document {
	doc := Document{
		ApplicationID: d.ID,
		ApplicantCode: d.ApplicantCode,
		PositionID:    d.PositionID,
		Status:        d.Status,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
	if d.Applicant != nil {
		doc.ApplicantName = d.Applicant.Name
		doc.ApplicantEmail = d.Applicant.Email
	}
	if d.Position != nil {
		doc.PositionTitle = d.Position.Title
	}
	if d.InitialEvaluation != nil {
		doc.Remarks = d.InitialEvaluation.Remarks
	}
	if d.AssessmentScore != nil {
		score := d.AssessmentScore.ActualScore.InexactFloat64()
		doc.ActualScore = &score
	}
	return doc
}

// DetailSource loads what a document is built from.
type DetailSource interface {
	GetApplicationDetail(ctx context.Context, id int64) (*models.ApplicationDetail, error)
}

type Index struct {
	es     *elasticsearch.Client
	name   string
	source DetailSource
}

func NewIndex(es *elasticsearch.Client, name string, source DetailSource) *Index {
	return &Index{es: es, name: name, source: source}
}

func (i *Index) Name() string {
	return i.name
}

// Put writes doc under its application id, replacing any previous version.
func (i *Index) Put(ctx context.Context, doc Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      i.name,
		DocumentID: strconv.FormatInt(doc.ApplicationID, 10),
		Body:       bytes.NewReader(body),
	}
	res, err := req.Do(ctx, i.es)
	if err != nil {
		return fmt.Errorf("index application %d: %w", doc.ApplicationID, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index application %d: %s", doc.ApplicationID, res.Status())
	}
	return nil
}

// Sync reloads the application from the database and re-indexes it.
func (i *Index) Sync(ctx context.Context, applicationID int64) error {
	detail, err := i.source.GetApplicationDetail(ctx, applicationID)
	if err != nil {
		return fmt.Errorf("load application %d for indexing: %w", applicationID, err)
	}
	return i.Put(ctx, DocumentFrom(detail))
}

type Query struct {
	Text   string
	Status string
	From   int
	Size   int
}

type Result struct {
	Total int64      `json:"total"`
	Hits  []Document `json:"hits"`
	Took  int64      `json:"took"`
}

// BuildQuery matches Text across name, code and position title, and filters on
// Status. An empty query matches everything, newest first.
func BuildQuery(q Query) map[string]interface{} {
	must := []interface{}{}
	filter := []interface{}{}

	if text := strings.TrimSpace(q.Text); text != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  text,
				"fields": []string{"applicantName^3", "applicantCode.text^2", "positionTitle"},
				"type":   "best_fields",
			},
		})
	} else {
		must = append(must, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	if q.Status != "" {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{"status": q.Status},
		})
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must":   must,
				"filter": filter,
			},
		},
		"sort": []interface{}{
			"_score",
			map[string]interface{}{"createdAt": map[string]interface{}{"order": "desc"}},
		},
	}
}

func (i *Index) Search(ctx context.Context, q Query) (*Result, error) {
	if q.Size < 1 {
		q.Size = 20
	}
	if q.Size > 100 {
		q.Size = 100
	}
	if q.From < 0 {
		q.From = 0
	}

	body, err := json.Marshal(BuildQuery(q))
	if err != nil {
		return nil, err
	}

	req := esapi.SearchRequest{
		Index: []string{i.name},
		Body:  bytes.NewReader(body),
		From:  &q.From,
		Size:  &q.Size,
	}

	start := time.Now()
	res, err := req.Do(ctx, i.es)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("%w: %s", ErrSearchFailed, res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source Document `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrSearchFailed, err)
	}

	out := &Result{
		Total: r.Hits.Total.Value,
		Hits:  make([]Document, 0, len(r.Hits.Hits)),
		Took:  time.Since(start).Milliseconds(),
	}
	for _, h := range r.Hits.Hits {
		out.Hits = append(out.Hits, h.Source)
	}
	return out, nil
}
