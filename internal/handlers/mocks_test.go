package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/sthapati/sthapati_be/internal/models"
	"github.com/sthapati/sthapati_be/internal/store"
)

type mockUsers struct{ mock.Mock }

func (m *mockUsers) Create(ctx context.Context, u *models.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUsers) ByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockUsers) ByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockUsers) ByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	args := m.Called(ctx, googleID)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockUsers) EmailTaken(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockUsers) PhoneTaken(ctx context.Context, phone string, except uuid.UUID) (bool, error) {
	args := m.Called(ctx, phone, except)
	return args.Bool(0), args.Error(1)
}

func (m *mockUsers) Save(ctx context.Context, u *models.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUsers) AddDismissed(ctx context.Context, userID, announcementID uuid.UUID) error {
	return m.Called(ctx, userID, announcementID).Error(0)
}

func (m *mockUsers) List(ctx context.Context, f store.UserFilter, p store.Page) ([]models.User, int64, error) {
	args := m.Called(ctx, f, p)
	users, _ := args.Get(0).([]models.User)
	return users, args.Get(1).(int64), args.Error(2)
}

func (m *mockUsers) CountByStatus(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).(map[string]int64)
	return out, args.Error(1)
}

func (m *mockUsers) CountByCategory(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).(map[string]int64)
	return out, args.Error(1)
}

type mockPosts struct{ mock.Mock }

func (m *mockPosts) Create(ctx context.Context, p *models.Post) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockPosts) ByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*models.Post)
	return p, args.Error(1)
}

func (m *mockPosts) Save(ctx context.Context, p *models.Post) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockPosts) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockPosts) List(ctx context.Context, f store.PostFilter, p store.Page) ([]models.Post, int64, error) {
	args := m.Called(ctx, f, p)
	posts, _ := args.Get(0).([]models.Post)
	return posts, args.Get(1).(int64), args.Error(2)
}

func (m *mockPosts) CountArticles(ctx context.Context, authorID uuid.UUID) (int64, error) {
	args := m.Called(ctx, authorID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockPosts) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockPosts) ToggleLike(ctx context.Context, postID, userID uuid.UUID) (bool, int, error) {
	args := m.Called(ctx, postID, userID)
	return args.Bool(0), args.Int(1), args.Error(2)
}

func (m *mockPosts) LikedBy(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, postID, userID)
	return args.Bool(0), args.Error(1)
}

type mockJobs struct{ mock.Mock }

func (m *mockJobs) Create(ctx context.Context, j *models.Job) error {
	return m.Called(ctx, j).Error(0)
}

func (m *mockJobs) ByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	args := m.Called(ctx, id)
	j, _ := args.Get(0).(*models.Job)
	return j, args.Error(1)
}

func (m *mockJobs) Save(ctx context.Context, j *models.Job) error {
	return m.Called(ctx, j).Error(0)
}

func (m *mockJobs) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockJobs) List(ctx context.Context, f store.JobFilter, p store.Page) ([]models.Job, int64, error) {
	args := m.Called(ctx, f, p)
	jobs, _ := args.Get(0).([]models.Job)
	return jobs, args.Get(1).(int64), args.Error(2)
}

func (m *mockJobs) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockApplications struct{ mock.Mock }

func (m *mockApplications) Create(ctx context.Context, a *models.Application) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockApplications) Exists(ctx context.Context, jobID, applicantID uuid.UUID) (bool, error) {
	args := m.Called(ctx, jobID, applicantID)
	return args.Bool(0), args.Error(1)
}

func (m *mockApplications) ByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*models.Application)
	return a, args.Error(1)
}

func (m *mockApplications) ListByJob(ctx context.Context, jobID uuid.UUID) ([]models.Application, error) {
	args := m.Called(ctx, jobID)
	apps, _ := args.Get(0).([]models.Application)
	return apps, args.Error(1)
}

func (m *mockApplications) ListByApplicant(ctx context.Context, applicantID uuid.UUID) ([]models.Application, error) {
	args := m.Called(ctx, applicantID)
	apps, _ := args.Get(0).([]models.Application)
	return apps, args.Error(1)
}

func (m *mockApplications) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ApplicationStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockApplications) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockAnnouncements struct{ mock.Mock }

func (m *mockAnnouncements) Create(ctx context.Context, a *models.Announcement) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockAnnouncements) ByID(ctx context.Context, id uuid.UUID) (*models.Announcement, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*models.Announcement)
	return a, args.Error(1)
}

func (m *mockAnnouncements) Save(ctx context.Context, a *models.Announcement) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockAnnouncements) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockAnnouncements) List(ctx context.Context) ([]models.Announcement, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]models.Announcement)
	return list, args.Error(1)
}

func (m *mockAnnouncements) Active(ctx context.Context, now time.Time) ([]models.Announcement, error) {
	args := m.Called(ctx, now)
	list, _ := args.Get(0).([]models.Announcement)
	return list, args.Error(1)
}

type mockOTP struct{ mock.Mock }

func (m *mockOTP) Issue(ctx context.Context, userID uuid.UUID, phone string) (string, error) {
	args := m.Called(ctx, userID, phone)
	return args.String(0), args.Error(1)
}

func (m *mockOTP) Verify(ctx context.Context, userID uuid.UUID, phone, code string) error {
	return m.Called(ctx, userID, phone, code).Error(0)
}

type mockSender struct{ mock.Mock }

func (m *mockSender) Send(ctx context.Context, phone, message string) error {
	return m.Called(ctx, phone, message).Error(0)
}

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) AccountStatusChanged(ctx context.Context, u *models.User, from models.Status) {
	m.Called(ctx, u, from)
}

func (m *mockNotifier) AnnouncementPublished(a *models.Announcement) {
	m.Called(a)
}
