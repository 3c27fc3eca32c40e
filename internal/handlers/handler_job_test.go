package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/JobSiteOps/job_tracking_app/internal/apperrors"
	"github.com/JobSiteOps/job_tracking_app/internal/core/domain"
	portssvc "github.com/JobSiteOps/job_tracking_app/internal/core/ports/services"
	"github.com/JobSiteOps/job_tracking_app/internal/dto"
	"github.com/JobSiteOps/job_tracking_app/internal/handlers"
	"github.com/JobSiteOps/job_tracking_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock JobService ---
type MockJobService struct {
	mock.Mock
}

func (m *MockJobService) GetJob(ctx context.Context, jobID string, requestingUserID string) (*domain.Job, error) {
	args := m.Called(ctx, jobID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}
func (m *MockJobService) ListJobs(ctx context.Context, requestingUserID string, limit, offset int) ([]domain.Job, error) {
	args := m.Called(ctx, requestingUserID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Job), args.Error(1)
}
func (m *MockJobService) BoardJobs(ctx context.Context, requestingUserID string) (map[domain.Lane][]domain.Job, error) {
	args := m.Called(ctx, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.Lane][]domain.Job), args.Error(1)
}
func (m *MockJobService) GetEffectiveAssignments(ctx context.Context, jobID string, requestingUserID string) (*domain.EffectiveAssignments, error) {
	args := m.Called(ctx, jobID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EffectiveAssignments), args.Error(1)
}
func (m *MockJobService) ListActivity(ctx context.Context, jobID string, requestingUserID string, limit int) ([]domain.ActivityLog, error) {
	args := m.Called(ctx, jobID, requestingUserID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ActivityLog), args.Error(1)
}
func (m *MockJobService) CreateJob(ctx context.Context, req dto.CreateJobRequest, creatorUserID string) (*domain.Job, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}
func (m *MockJobService) Handoff(ctx context.Context, jobID string, targetDepartmentID string, actorUserID string) (*domain.Job, error) {
	args := m.Called(ctx, jobID, targetDepartmentID, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}
func (m *MockJobService) UpdateCompletedPhaseStage(ctx context.Context, jobID string, departmentID string, newStage domain.PhaseStage, actorUserID string) (*domain.Job, error) {
	args := m.Called(ctx, jobID, departmentID, newStage, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}
func (m *MockJobService) ApplyLaneMove(ctx context.Context, jobID string, targetLane domain.Lane, actorUserID string) (*domain.Job, error) {
	args := m.Called(ctx, jobID, targetLane, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}
func (m *MockJobService) UpdateAssignments(ctx context.Context, jobID string, assignments domain.JobAssignments, actorUserID string) (*domain.Job, error) {
	args := m.Called(ctx, jobID, assignments, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}
func (m *MockJobService) SubscribeVisibleJobs(ctx context.Context, requestingUserID string) (<-chan []domain.Job, func(), error) {
	args := m.Called(ctx, requestingUserID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(<-chan []domain.Job), args.Get(1).(func()), args.Error(2)
}

// Ensure mock implements the interface
var _ portssvc.JobSvcFacade = (*MockJobService)(nil)

// --- Test Suite ---
type JobHandlerTestSuite struct {
	suite.Suite
	router         *gin.Engine
	mockJobService *MockJobService
	jwtSecret      string
}

// generateTestToken creates a dummy JWT for testing.
func (suite *JobHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "jta-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *JobHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	// Use the actual AuthMiddleware
	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockJobService = new(MockJobService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterJobRoutes(v1, suite.mockJobService)
}

// testJob builds a minimal job with one ACTIVE phase.
func (suite *JobHandlerTestSuite) testJob(jobID string) *domain.Job {
	supervisor := "mgr1"
	return &domain.Job{
		JobID:         jobID,
		OrgID:         "org-1",
		OfficeID:      "office-1",
		DepartmentID:  "d1",
		DepartmentIDs: []string{"d1"},
		Status:        domain.StatusPending,
		JobName:       "Smith - 12 Main St",
		Customer:      domain.Customer{Name: "Smith"},
		Property:      domain.Property{Address: "12 Main St"},
		Assignments: domain.JobAssignments{
			SupervisorID:  &supervisor,
			TeamMemberIDs: []string{},
		},
		AssignedUserIDs: []string{"mgr1"},
		Phases: []domain.Phase{
			{
				PhaseID:      "p1",
				DepartmentID: "d1",
				Name:         "Mitigation",
				Status:       domain.PhaseActive,
				Assignments: domain.JobAssignments{
					SupervisorID:  &supervisor,
					TeamMemberIDs: []string{},
				},
			},
		},
		Version: 1,
	}
}

func (suite *JobHandlerTestSuite) authedRequest(method, url string, body []byte, userID string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader(body)
	}
	req, _ := http.NewRequest(method, url, reader)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *JobHandlerTestSuite) TestListJobs_Success() {
	requestingUserID := uuid.NewString()
	expectedJobs := []domain.Job{*suite.testJob("job-1"), *suite.testJob("job-2")}

	suite.mockJobService.On("ListJobs",
		mock.AnythingOfType("*context.valueCtx"),
		requestingUserID,
		20, 0,
	).Return(expectedJobs, nil).Once()

	w := suite.authedRequest(http.MethodGet, "/api/v1/jobs", nil, requestingUserID)

	suite.Equal(http.StatusOK, w.Code)

	var responseBody dto.ListJobsResponse
	err := json.Unmarshal(w.Body.Bytes(), &responseBody)
	suite.NoError(err, "Failed to unmarshal response body")
	suite.Len(responseBody.Jobs, 2)
	suite.Equal("job-1", responseBody.Jobs[0].JobID)
	suite.Equal("unassigned", responseBody.Jobs[0].Lane)
	suite.Nil(responseBody.NextPageToken, "short page should not yield a next token")

	suite.mockJobService.AssertExpectations(suite.T())
}

func (suite *JobHandlerTestSuite) TestListJobs_FullPageYieldsNextToken() {
	requestingUserID := uuid.NewString()
	page := []domain.Job{*suite.testJob("job-1"), *suite.testJob("job-2")}

	suite.mockJobService.On("ListJobs",
		mock.AnythingOfType("*context.valueCtx"),
		requestingUserID,
		2, 0,
	).Return(page, nil).Once()

	w := suite.authedRequest(http.MethodGet, "/api/v1/jobs?limit=2", nil, requestingUserID)

	suite.Equal(http.StatusOK, w.Code)
	var responseBody dto.ListJobsResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &responseBody))
	suite.NotNil(responseBody.NextPageToken)
	suite.mockJobService.AssertExpectations(suite.T())
}

func (suite *JobHandlerTestSuite) TestListJobs_InvalidPageToken() {
	requestingUserID := uuid.NewString()

	w := suite.authedRequest(http.MethodGet, "/api/v1/jobs?pageToken=not-base64!!!", nil, requestingUserID)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockJobService.AssertNotCalled(suite.T(), "ListJobs")
}

func (suite *JobHandlerTestSuite) TestListJobs_MissingAuthHeader() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/jobs", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockJobService.AssertNotCalled(suite.T(), "ListJobs")
}

func (suite *JobHandlerTestSuite) TestListJobs_ExpiredToken() {
	claims := jwt.RegisteredClaims{
		Subject:   uuid.NewString(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(suite.jwtSecret))
	suite.NoError(err)

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/jobs", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Contains(w.Body.String(), "expired")
	suite.mockJobService.AssertNotCalled(suite.T(), "ListJobs")
}

func (suite *JobHandlerTestSuite) TestGetJob_Success() {
	requestingUserID := uuid.NewString()
	job := suite.testJob("job-1")

	suite.mockJobService.On("GetJob",
		mock.AnythingOfType("*context.valueCtx"),
		"job-1",
		requestingUserID,
	).Return(job, nil).Once()

	w := suite.authedRequest(http.MethodGet, "/api/v1/jobs/job-1", nil, requestingUserID)

	suite.Equal(http.StatusOK, w.Code)
	var responseBody dto.JobResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &responseBody))
	suite.Equal("job-1", responseBody.JobID)
	suite.Equal("PENDING", responseBody.Status)
	suite.Len(responseBody.Phases, 1)
	suite.mockJobService.AssertExpectations(suite.T())
}

func (suite *JobHandlerTestSuite) TestGetJob_OutOfScope() {
	requestingUserID := uuid.NewString()

	suite.mockJobService.On("GetJob",
		mock.AnythingOfType("*context.valueCtx"),
		"job-1",
		requestingUserID,
	).Return(nil, apperrors.NewOutOfScopeError("job job-1 is outside your scope")).Once()

	w := suite.authedRequest(http.MethodGet, "/api/v1/jobs/job-1", nil, requestingUserID)

	suite.Equal(http.StatusForbidden, w.Code)
	suite.mockJobService.AssertExpectations(suite.T())
}

func (suite *JobHandlerTestSuite) TestCreateJob_Success() {
	requestingUserID := uuid.NewString()
	job := suite.testJob("job-new")

	suite.mockJobService.On("CreateJob",
		mock.AnythingOfType("*context.valueCtx"),
		mock.MatchedBy(func(req dto.CreateJobRequest) bool {
			return req.OfficeID == "office-1" && req.Customer.Name == "Smith"
		}),
		requestingUserID,
	).Return(job, nil).Once()

	body, _ := json.Marshal(dto.CreateJobRequest{
		OfficeID: "office-1",
		Customer: dto.CustomerDTO{Name: "Smith"},
		Property: dto.PropertyDTO{Address: "12 Main St"},
	})
	w := suite.authedRequest(http.MethodPost, "/api/v1/jobs", body, requestingUserID)

	suite.Equal(http.StatusCreated, w.Code)
	var responseBody dto.JobResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &responseBody))
	suite.Equal("job-new", responseBody.JobID)
	suite.mockJobService.AssertExpectations(suite.T())
}

func (suite *JobHandlerTestSuite) TestCreateJob_MissingOfficeRejected() {
	requestingUserID := uuid.NewString()

	body, _ := json.Marshal(dto.CreateJobRequest{
		Customer: dto.CustomerDTO{Name: "Smith"},
		Property: dto.PropertyDTO{Address: "12 Main St"},
	})
	w := suite.authedRequest(http.MethodPost, "/api/v1/jobs", body, requestingUserID)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockJobService.AssertNotCalled(suite.T(), "CreateJob")
}

func (suite *JobHandlerTestSuite) TestHandoff_Success() {
	requestingUserID := uuid.NewString()
	job := suite.testJob("job-1")
	job.DepartmentID = "d2"
	job.DepartmentIDs = []string{"d1", "d2"}

	suite.mockJobService.On("Handoff",
		mock.AnythingOfType("*context.valueCtx"),
		"job-1",
		"d2",
		requestingUserID,
	).Return(job, nil).Once()

	body, _ := json.Marshal(dto.HandoffRequest{TargetDepartmentID: "d2"})
	w := suite.authedRequest(http.MethodPost, "/api/v1/jobs/job-1/handoff", body, requestingUserID)

	suite.Equal(http.StatusOK, w.Code)
	var responseBody dto.JobResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &responseBody))
	suite.Equal("d2", responseBody.DepartmentID)
	suite.Equal([]string{"d1", "d2"}, responseBody.DepartmentIDs)
	suite.mockJobService.AssertExpectations(suite.T())
}

func (suite *JobHandlerTestSuite) TestHandoff_VersionConflict() {
	requestingUserID := uuid.NewString()

	suite.mockJobService.On("Handoff",
		mock.AnythingOfType("*context.valueCtx"),
		"job-1",
		"d2",
		requestingUserID,
	).Return(nil, apperrors.NewConflictError("job job-1 was modified concurrently")).Once()

	body, _ := json.Marshal(dto.HandoffRequest{TargetDepartmentID: "d2"})
	w := suite.authedRequest(http.MethodPost, "/api/v1/jobs/job-1/handoff", body, requestingUserID)

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockJobService.AssertExpectations(suite.T())
}

func (suite *JobHandlerTestSuite) TestHandoff_MissingTargetRejected() {
	requestingUserID := uuid.NewString()

	w := suite.authedRequest(http.MethodPost, "/api/v1/jobs/job-1/handoff", []byte(`{}`), requestingUserID)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockJobService.AssertNotCalled(suite.T(), "Handoff")
}

func (suite *JobHandlerTestSuite) TestMoveLane_Success() {
	requestingUserID := uuid.NewString()
	job := suite.testJob("job-1")
	job.Status = domain.StatusMitigation

	suite.mockJobService.On("ApplyLaneMove",
		mock.AnythingOfType("*context.valueCtx"),
		"job-1",
		domain.LaneInProgress,
		requestingUserID,
	).Return(job, nil).Once()

	body, _ := json.Marshal(dto.LaneMoveRequest{TargetLane: "in_progress"})
	w := suite.authedRequest(http.MethodPost, "/api/v1/jobs/job-1/lane", body, requestingUserID)

	suite.Equal(http.StatusOK, w.Code)
	var responseBody dto.JobResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &responseBody))
	suite.Equal("in_progress", responseBody.Lane)
	suite.mockJobService.AssertExpectations(suite.T())
}

func (suite *JobHandlerTestSuite) TestMoveLane_UnknownLaneRejected() {
	requestingUserID := uuid.NewString()

	w := suite.authedRequest(http.MethodPost, "/api/v1/jobs/job-1/lane", []byte(`{"targetLane":"parking"}`), requestingUserID)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockJobService.AssertNotCalled(suite.T(), "ApplyLaneMove")
}

func (suite *JobHandlerTestSuite) TestUpdatePhaseStage_Success() {
	requestingUserID := uuid.NewString()
	job := suite.testJob("job-1")

	suite.mockJobService.On("UpdateCompletedPhaseStage",
		mock.AnythingOfType("*context.valueCtx"),
		"job-1",
		"d1",
		domain.StageBilling,
		requestingUserID,
	).Return(job, nil).Once()

	body, _ := json.Marshal(dto.UpdatePhaseStageRequest{DepartmentID: "d1", Stage: "BILLING"})
	w := suite.authedRequest(http.MethodPut, "/api/v1/jobs/job-1/phase-stage", body, requestingUserID)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockJobService.AssertExpectations(suite.T())
}

func (suite *JobHandlerTestSuite) TestUpdatePhaseStage_UnknownStageRejected() {
	requestingUserID := uuid.NewString()

	body := []byte(`{"departmentId":"d1","stage":"SHIPPED"}`)
	w := suite.authedRequest(http.MethodPut, "/api/v1/jobs/job-1/phase-stage", body, requestingUserID)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockJobService.AssertNotCalled(suite.T(), "UpdateCompletedPhaseStage")
}

func (suite *JobHandlerTestSuite) TestUpdateAssignments_FrozenDepartment() {
	requestingUserID := uuid.NewString()
	lead := "tech2"

	suite.mockJobService.On("UpdateAssignments",
		mock.AnythingOfType("*context.valueCtx"),
		"job-1",
		mock.MatchedBy(func(a domain.JobAssignments) bool {
			return a.LeadTechnicianID != nil && *a.LeadTechnicianID == "tech2"
		}),
		requestingUserID,
	).Return(nil, apperrors.NewForbiddenError("assignments are frozen after handoff")).Once()

	body, _ := json.Marshal(dto.UpdateAssignmentsRequest{
		Assignments: dto.AssignmentsDTO{LeadTechnicianID: &lead},
	})
	w := suite.authedRequest(http.MethodPut, "/api/v1/jobs/job-1/assignments", body, requestingUserID)

	suite.Equal(http.StatusForbidden, w.Code)
	suite.mockJobService.AssertExpectations(suite.T())
}

func (suite *JobHandlerTestSuite) TestGetBoard_AllLanesPresent() {
	requestingUserID := uuid.NewString()
	buckets := map[domain.Lane][]domain.Job{
		domain.LaneUnassigned: {*suite.testJob("job-1")},
	}

	suite.mockJobService.On("BoardJobs",
		mock.AnythingOfType("*context.valueCtx"),
		requestingUserID,
	).Return(buckets, nil).Once()

	w := suite.authedRequest(http.MethodGet, "/api/v1/jobs/board", nil, requestingUserID)

	suite.Equal(http.StatusOK, w.Code)
	var responseBody dto.BoardResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &responseBody))
	suite.Len(responseBody.Lanes, 4, "empty lanes must still be present")
	suite.Len(responseBody.Lanes["unassigned"], 1)
	suite.Empty(responseBody.Lanes["done"])
	suite.mockJobService.AssertExpectations(suite.T())
}

func (suite *JobHandlerTestSuite) TestGetEffectiveAssignments_Historical() {
	requestingUserID := uuid.NewString()
	supervisor := "mgr1"

	suite.mockJobService.On("GetEffectiveAssignments",
		mock.AnythingOfType("*context.valueCtx"),
		"job-1",
		requestingUserID,
	).Return(&domain.EffectiveAssignments{
		Assignments:  domain.JobAssignments{SupervisorID: &supervisor, TeamMemberIDs: []string{}},
		Status:       "REVIEW",
		IsHistorical: true,
	}, nil).Once()

	w := suite.authedRequest(http.MethodGet, "/api/v1/jobs/job-1/assignments/effective", nil, requestingUserID)

	suite.Equal(http.StatusOK, w.Code)
	var responseBody dto.EffectiveAssignmentsResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &responseBody))
	suite.True(responseBody.IsHistorical)
	suite.Equal("REVIEW", responseBody.Status)
	suite.Equal("mgr1", *responseBody.Assignments.SupervisorID)
	suite.mockJobService.AssertExpectations(suite.T())
}

func (suite *JobHandlerTestSuite) TestListActivity_Success() {
	requestingUserID := uuid.NewString()
	entries := []domain.ActivityLog{
		{ActivityID: "a2", JobID: "job-1", UserID: requestingUserID, Action: "HANDOFF", CreatedAt: time.Now()},
		{ActivityID: "a1", JobID: "job-1", UserID: requestingUserID, Action: "CREATE", CreatedAt: time.Now().Add(-time.Hour)},
	}

	suite.mockJobService.On("ListActivity",
		mock.AnythingOfType("*context.valueCtx"),
		"job-1",
		requestingUserID,
		50,
	).Return(entries, nil).Once()

	w := suite.authedRequest(http.MethodGet, "/api/v1/jobs/job-1/activity", nil, requestingUserID)

	suite.Equal(http.StatusOK, w.Code)
	var responseBody []dto.ActivityResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &responseBody))
	suite.Len(responseBody, 2)
	suite.Equal("a2", responseBody[0].ActivityID)
	suite.mockJobService.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestJobHandler(t *testing.T) {
	suite.Run(t, new(JobHandlerTestSuite))
}
