package services

import (
	"context"

	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/apierror"
	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/client/models"
	"golang.org/x/sync/errgroup"
)

type AdminAPI interface {
	Orders(ctx context.Context, p models.ListParams) (*models.Page[models.Order], error)
	Order(ctx context.Context, id int64) (*models.Order, error)
	UserOrders(ctx context.Context, userID int64) ([]models.Order, error)
	UpdateOrder(ctx context.Context, id int64, upd models.OrderUpdate) (*models.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
	ToggleOrder(ctx context.Context, id int64) error

	Customers(ctx context.Context, p models.ListParams) (*models.Page[models.Customer], error)

	Requests(ctx context.Context, p models.ListParams) (*models.Page[models.ContactRequest], error)
	ToggleRequest(ctx context.Context, id int64) error
	RequestAnswers(ctx context.Context, id int64) ([]models.RequestAnswer, error)
	AnswerRequest(ctx context.Context, id int64, text string) (*models.RequestAnswer, error)

	Translations(ctx context.Context, p models.ListParams) (*models.Page[models.Translation], error)
	SaveTranslation(ctx context.Context, t models.Translation) (*models.Translation, error)
	DeleteTranslation(ctx context.Context, id int64) error

	SendMessage(ctx context.Context, receiverID int64, text string, files ...*models.Upload) (*models.Message, error)
	ToggleMessages(ctx context.Context, senderID int64) (int, error)

	BaseStats(ctx context.Context) (*models.BaseStats, error)
	StatusDistribution(ctx context.Context) ([]models.StatusStat, error)
	OrderingDynamics(ctx context.Context) ([]models.PeriodCount, error)
	TypeDistribution(ctx context.Context) ([]models.TypeStat, error)
	CustomersGeography(ctx context.Context) ([]models.GeographyStat, error)
	CustomersGrowth(ctx context.Context) ([]models.PeriodCount, error)
	OrderRequestComparison(ctx context.Context) (*models.Comparison, error)
}

// AdminLoginer starts a staff session; *session.Store implements it.
type AdminLoginer interface {
	AdminLogin(ctx context.Context, email, password string) error
}

// Statistics is the admin dashboard. Every chart has its own error slot so
// one failing endpoint does not hide the others.
type Statistics struct {
	Base       *models.BaseStats
	Status     []models.StatusStat
	Dynamics   []models.PeriodCount
	Types      []models.TypeStat
	Geography  []models.GeographyStat
	Growth     []models.PeriodCount
	Comparison *models.Comparison

	BaseErr       *apierror.Response
	StatusErr     *apierror.Response
	DynamicsErr   *apierror.Response
	TypesErr      *apierror.Response
	GeographyErr  *apierror.Response
	GrowthErr     *apierror.Response
	ComparisonErr *apierror.Response
}

// Errors returns the failed slots keyed by chart name.
func (s *Statistics) Errors() map[string]*apierror.Response {
	out := map[string]*apierror.Response{}
	for name, err := range map[string]*apierror.Response{
		"base":       s.BaseErr,
		"status":     s.StatusErr,
		"dynamics":   s.DynamicsErr,
		"types":      s.TypesErr,
		"geography":  s.GeographyErr,
		"growth":     s.GrowthErr,
		"comparison": s.ComparisonErr,
	} {
		if err != nil {
			out[name] = err
		}
	}
	return out
}

// AdminService backs the admin panel commands.
type AdminService interface {
	Login(ctx context.Context, email, password string) error

	Orders(ctx context.Context, p models.ListParams) (*models.Page[models.Order], error)
	Order(ctx context.Context, id int64) (*models.Order, error)
	UserOrders(ctx context.Context, userID int64) ([]models.Order, error)
	UpdateOrder(ctx context.Context, id int64, upd models.OrderUpdate) (*models.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
	ToggleOrder(ctx context.Context, id int64) error

	Customers(ctx context.Context, p models.ListParams) (*models.Page[models.Customer], error)

	Requests(ctx context.Context, p models.ListParams) (*models.Page[models.ContactRequest], error)
	ToggleRequest(ctx context.Context, id int64) error
	RequestAnswers(ctx context.Context, id int64) ([]models.RequestAnswer, error)
	AnswerRequest(ctx context.Context, id int64, text string) (*models.RequestAnswer, error)

	Translations(ctx context.Context, p models.ListParams) (*models.Page[models.Translation], error)
	SaveTranslation(ctx context.Context, t models.Translation) (*models.Translation, error)
	DeleteTranslation(ctx context.Context, id int64) error

	SendMessage(ctx context.Context, userID int64, text string, files ...*models.Upload) (*models.Message, error)
	ToggleMessages(ctx context.Context, senderID int64) (int, error)

	Statistics(ctx context.Context) (*Statistics, error)
}

type adminService struct {
	api   AdminAPI
	login AdminLoginer
}

func NewAdminService(api AdminAPI, login AdminLoginer) AdminService {
	return &adminService{api: api, login: login}
}

// Login errors come back normalized from the session store.
func (s *adminService) Login(ctx context.Context, email, password string) error {
	return s.login.AdminLogin(ctx, email, password)
}

func (s *adminService) Orders(ctx context.Context, p models.ListParams) (*models.Page[models.Order], error) {
	page, err := s.api.Orders(ctx, p)
	return page, normalized(err)
}

func (s *adminService) Order(ctx context.Context, id int64) (*models.Order, error) {
	order, err := s.api.Order(ctx, id)
	return order, normalized(err)
}

func (s *adminService) UserOrders(ctx context.Context, userID int64) ([]models.Order, error) {
	orders, err := s.api.UserOrders(ctx, userID)
	return orders, normalized(err)
}

func (s *adminService) UpdateOrder(ctx context.Context, id int64, upd models.OrderUpdate) (*models.Order, error) {
	order, err := s.api.UpdateOrder(ctx, id, upd)
	return order, normalized(err)
}

func (s *adminService) DeleteOrder(ctx context.Context, id int64) error {
	return normalized(s.api.DeleteOrder(ctx, id))
}

func (s *adminService) ToggleOrder(ctx context.Context, id int64) error {
	return normalized(s.api.ToggleOrder(ctx, id))
}

func (s *adminService) Customers(ctx context.Context, p models.ListParams) (*models.Page[models.Customer], error) {
	page, err := s.api.Customers(ctx, p)
	return page, normalized(err)
}

func (s *adminService) Requests(ctx context.Context, p models.ListParams) (*models.Page[models.ContactRequest], error) {
	page, err := s.api.Requests(ctx, p)
	return page, normalized(err)
}

func (s *adminService) ToggleRequest(ctx context.Context, id int64) error {
	return normalized(s.api.ToggleRequest(ctx, id))
}

func (s *adminService) RequestAnswers(ctx context.Context, id int64) ([]models.RequestAnswer, error) {
	answers, err := s.api.RequestAnswers(ctx, id)
	return answers, normalized(err)
}

func (s *adminService) AnswerRequest(ctx context.Context, id int64, text string) (*models.RequestAnswer, error) {
	answer, err := s.api.AnswerRequest(ctx, id, text)
	return answer, normalized(err)
}

func (s *adminService) Translations(ctx context.Context, p models.ListParams) (*models.Page[models.Translation], error) {
	page, err := s.api.Translations(ctx, p)
	return page, normalized(err)
}

func (s *adminService) SaveTranslation(ctx context.Context, t models.Translation) (*models.Translation, error) {
	saved, err := s.api.SaveTranslation(ctx, t)
	return saved, normalized(err)
}

func (s *adminService) DeleteTranslation(ctx context.Context, id int64) error {
	return normalized(s.api.DeleteTranslation(ctx, id))
}

func (s *adminService) SendMessage(ctx context.Context, userID int64, text string, files ...*models.Upload) (*models.Message, error) {
	msg, err := s.api.SendMessage(ctx, userID, text, files...)
	return msg, normalized(err)
}

func (s *adminService) ToggleMessages(ctx context.Context, senderID int64) (int, error) {
	n, err := s.api.ToggleMessages(ctx, senderID)
	return n, normalized(err)
}

// Statistics loads the seven dashboard endpoints concurrently. Individual
// failures land in their slot. An expired session or the end of ctx stops
// the remaining loads and is returned.
func (s *adminService) Statistics(ctx context.Context) (*Statistics, error) {
	st := &Statistics{}
	g, gctx := errgroup.WithContext(ctx)

	load(g, &st.Base, &st.BaseErr, func() (*models.BaseStats, error) { return s.api.BaseStats(gctx) })
	load(g, &st.Status, &st.StatusErr, func() ([]models.StatusStat, error) { return s.api.StatusDistribution(gctx) })
	load(g, &st.Dynamics, &st.DynamicsErr, func() ([]models.PeriodCount, error) { return s.api.OrderingDynamics(gctx) })
	load(g, &st.Types, &st.TypesErr, func() ([]models.TypeStat, error) { return s.api.TypeDistribution(gctx) })
	load(g, &st.Geography, &st.GeographyErr, func() ([]models.GeographyStat, error) { return s.api.CustomersGeography(gctx) })
	load(g, &st.Growth, &st.GrowthErr, func() ([]models.PeriodCount, error) { return s.api.CustomersGrowth(gctx) })
	load(g, &st.Comparison, &st.ComparisonErr, func() (*models.Comparison, error) { return s.api.OrderRequestComparison(gctx) })

	if err := g.Wait(); err != nil {
		return st, err
	}
	if err := ctx.Err(); err != nil {
		return st, apierror.Normalize(err)
	}
	return st, nil
}

func load[T any](g *errgroup.Group, dst *T, slot **apierror.Response, fetch func() (T, error)) {
	g.Go(func() error {
		v, err := fetch()
		if err != nil {
			res := apierror.Normalize(err)
			if res.Code == apierror.CodeCanceled || apierror.IsUnauthorized(res) {
				return res
			}
			*slot = res
			return nil
		}
		*dst = v
		return nil
	})
}
