package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/nexdesk/portal-service/internal/domain"
	"github.com/nexdesk/portal-service/internal/events"
	"github.com/nexdesk/portal-service/internal/repository"
)

type fakeIncidentRepo struct {
	incidents   map[string]*domain.Incident
	createCalls int
}

func newFakeIncidentRepo() *fakeIncidentRepo {
	return &fakeIncidentRepo{incidents: make(map[string]*domain.Incident)}
}

func (r *fakeIncidentRepo) Create(_ context.Context, incident *domain.Incident) error {
	r.createCalls++
	if incident.ID == "" {
		incident.ID = uuid.NewString()
	}
	copied := *incident
	r.incidents[incident.ID] = &copied
	return nil
}

func (r *fakeIncidentRepo) Update(_ context.Context, incident *domain.Incident) error {
	if _, ok := r.incidents[incident.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *incident
	r.incidents[incident.ID] = &copied
	return nil
}

func (r *fakeIncidentRepo) GetByID(_ context.Context, id string) (*domain.Incident, error) {
	incident, ok := r.incidents[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *incident
	return &copied, nil
}

func (r *fakeIncidentRepo) ListByOwner(_ context.Context, ownerID string) ([]domain.Incident, error) {
	var result []domain.Incident
	for _, incident := range r.incidents {
		if incident.OwnerID == ownerID {
			result = append(result, *incident)
		}
	}
	return result, nil
}

func (r *fakeIncidentRepo) ListWithFilter(_ context.Context, _ repository.IncidentFilter) ([]domain.Incident, error) {
	var result []domain.Incident
	for _, incident := range r.incidents {
		result = append(result, *incident)
	}
	return result, nil
}

type fakeSessionRepo struct {
	sessions map[string]*domain.RemoteSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*domain.RemoteSession)}
}

func (r *fakeSessionRepo) Create(_ context.Context, session *domain.RemoteSession) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	copied := *session
	r.sessions[session.ID] = &copied
	return nil
}

func (r *fakeSessionRepo) Update(_ context.Context, session *domain.RemoteSession) error {
	if _, ok := r.sessions[session.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *session
	r.sessions[session.ID] = &copied
	return nil
}

func (r *fakeSessionRepo) GetByID(_ context.Context, id string) (*domain.RemoteSession, error) {
	session, ok := r.sessions[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *session
	return &copied, nil
}

func (r *fakeSessionRepo) GetByCode(_ context.Context, code string) (*domain.RemoteSession, error) {
	for _, session := range r.sessions {
		if session.SessionCode == code {
			copied := *session
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeSessionRepo) ListByUser(_ context.Context, userID string, _, _ int) ([]domain.RemoteSession, error) {
	var result []domain.RemoteSession
	for _, session := range r.sessions {
		if session.RequesterID == userID || session.TargetUserID == userID {
			result = append(result, *session)
		}
	}
	return result, nil
}

func (r *fakeSessionRepo) ListByStatus(_ context.Context, status domain.SessionStatus) ([]domain.RemoteSession, error) {
	var result []domain.RemoteSession
	for _, session := range r.sessions {
		if session.Status == status {
			result = append(result, *session)
		}
	}
	return result, nil
}

type fakeTimingRepo struct {
	events map[string][]domain.TimingEvent
	err    error
}

func newFakeTimingRepo() *fakeTimingRepo {
	return &fakeTimingRepo{events: make(map[string][]domain.TimingEvent)}
}

func (r *fakeTimingRepo) Append(_ context.Context, event *domain.TimingEvent) error {
	if r.err != nil {
		return r.err
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	r.events[event.SessionID] = append(r.events[event.SessionID], *event)
	return nil
}

func (r *fakeTimingRepo) ListBySession(_ context.Context, sessionID string) ([]domain.TimingEvent, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.events[sessionID], nil
}

type fakeSessionMessageRepo struct {
	messages map[string][]domain.SessionMessage
	err      error
}

func newFakeSessionMessageRepo() *fakeSessionMessageRepo {
	return &fakeSessionMessageRepo{messages: make(map[string][]domain.SessionMessage)}
}

func (r *fakeSessionMessageRepo) Append(_ context.Context, message *domain.SessionMessage) error {
	if r.err != nil {
		return r.err
	}
	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	r.messages[message.SessionID] = append(r.messages[message.SessionID], *message)
	return nil
}

func (r *fakeSessionMessageRepo) ListBySession(_ context.Context, sessionID string) ([]domain.SessionMessage, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.messages[sessionID], nil
}

type fakeStaffRepo struct {
	staff map[string]*domain.StaffMember
}

func newFakeStaffRepo() *fakeStaffRepo {
	return &fakeStaffRepo{staff: make(map[string]*domain.StaffMember)}
}

func (r *fakeStaffRepo) Create(_ context.Context, staff *domain.StaffMember) error {
	if staff.ID == "" {
		staff.ID = uuid.NewString()
	}
	copied := *staff
	r.staff[staff.ID] = &copied
	return nil
}

func (r *fakeStaffRepo) Update(_ context.Context, staff *domain.StaffMember) error {
	if _, ok := r.staff[staff.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *staff
	r.staff[staff.ID] = &copied
	return nil
}

func (r *fakeStaffRepo) GetByID(_ context.Context, id string) (*domain.StaffMember, error) {
	staff, ok := r.staff[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *staff
	return &copied, nil
}

func (r *fakeStaffRepo) GetByEmail(_ context.Context, email string) (*domain.StaffMember, error) {
	for _, staff := range r.staff {
		if staff.Email == email {
			copied := *staff
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeCatalogRepo struct {
	items map[string]*domain.CatalogItem
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{items: make(map[string]*domain.CatalogItem)}
}

func (r *fakeCatalogRepo) Create(_ context.Context, item *domain.CatalogItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	copied := *item
	r.items[item.ID] = &copied
	return nil
}

func (r *fakeCatalogRepo) Update(_ context.Context, item *domain.CatalogItem) error {
	if _, ok := r.items[item.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *item
	r.items[item.ID] = &copied
	return nil
}

func (r *fakeCatalogRepo) GetByID(_ context.Context, id string) (*domain.CatalogItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *item
	return &copied, nil
}

func (r *fakeCatalogRepo) List(_ context.Context, activeOnly bool) ([]domain.CatalogItem, error) {
	var result []domain.CatalogItem
	for _, item := range r.items {
		if activeOnly && !item.Active {
			continue
		}
		result = append(result, *item)
	}
	return result, nil
}

type fakeAssetRepo struct {
	assets map[string]*domain.Asset
}

func newFakeAssetRepo() *fakeAssetRepo {
	return &fakeAssetRepo{assets: make(map[string]*domain.Asset)}
}

func (r *fakeAssetRepo) Create(_ context.Context, asset *domain.Asset) error {
	if asset.ID == "" {
		asset.ID = uuid.NewString()
	}
	copied := *asset
	r.assets[asset.ID] = &copied
	return nil
}

func (r *fakeAssetRepo) Update(_ context.Context, asset *domain.Asset) error {
	if _, ok := r.assets[asset.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *asset
	r.assets[asset.ID] = &copied
	return nil
}

func (r *fakeAssetRepo) GetByID(_ context.Context, id string) (*domain.Asset, error) {
	asset, ok := r.assets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *asset
	return &copied, nil
}

func (r *fakeAssetRepo) GetByTag(_ context.Context, tag string) (*domain.Asset, error) {
	for _, asset := range r.assets {
		if asset.AssetTag == tag {
			copied := *asset
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeAssetRepo) List(_ context.Context, _, _ int) ([]domain.Asset, error) {
	var result []domain.Asset
	for _, asset := range r.assets {
		result = append(result, *asset)
	}
	return result, nil
}

func (r *fakeAssetRepo) ListByUser(_ context.Context, userID string) ([]domain.Asset, error) {
	var result []domain.Asset
	for _, asset := range r.assets {
		if asset.AssignedUserID != nil && *asset.AssignedUserID == userID {
			result = append(result, *asset)
		}
	}
	return result, nil
}

type fakeUserRepo struct {
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeArticleRepo struct {
	articles map[string]*domain.Article
	viewErr  error
}

func newFakeArticleRepo() *fakeArticleRepo {
	return &fakeArticleRepo{articles: make(map[string]*domain.Article)}
}

func (r *fakeArticleRepo) Create(_ context.Context, article *domain.Article) error {
	if article.ID == "" {
		article.ID = uuid.NewString()
	}
	copied := *article
	r.articles[article.ID] = &copied
	return nil
}

func (r *fakeArticleRepo) Update(_ context.Context, article *domain.Article) error {
	if _, ok := r.articles[article.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *article
	r.articles[article.ID] = &copied
	return nil
}

func (r *fakeArticleRepo) GetByID(_ context.Context, id string) (*domain.Article, error) {
	article, ok := r.articles[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *article
	return &copied, nil
}

func (r *fakeArticleRepo) Search(_ context.Context, term string, publishedOnly bool, _, _ int) ([]domain.Article, error) {
	var result []domain.Article
	for _, article := range r.articles {
		if publishedOnly && !article.Published {
			continue
		}
		result = append(result, *article)
	}
	return result, nil
}

func (r *fakeArticleRepo) IncrementViews(_ context.Context, id string) error {
	if r.viewErr != nil {
		return r.viewErr
	}
	article, ok := r.articles[id]
	if !ok {
		return pgx.ErrNoRows
	}
	article.ViewCount++
	return nil
}

// recordingDispatcher captures published events for assertions.
type recordingDispatcher struct {
	published []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(_ events.EventType, _ events.EventHandler) {}

func (d *recordingDispatcher) byType(eventType events.EventType) []events.Event {
	var result []events.Event
	for _, event := range d.published {
		if event.Type == eventType {
			result = append(result, event)
		}
	}
	return result
}
