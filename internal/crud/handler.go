package crud

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"path"
	"strconv"

	"gymdesk/internal/api"
	"gymdesk/internal/auth"
	"gymdesk/internal/db"
	"gymdesk/internal/logger"
	"gymdesk/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

const (
	msgValidationFailed = "Form validation failed"
	msgUnavailable      = "Database is temporarily unavailable. Please try again."
	msgUnexpected       = "An unexpected error occurred."
)

// Registry is shared by every mounted resource.
type Registry struct {
	DB        *sqlx.DB
	Policy    *auth.Policy
	URLs      *URLs
	Validator *Validator
	Backoff   db.Backoff
	LoginPath string
}

func NewRegistry(database *sqlx.DB, policy *auth.Policy, loginPath string) *Registry {
	return &Registry{
		DB:        database,
		Policy:    policy,
		URLs:      NewURLs(),
		Validator: NewValidator(),
		Backoff:   db.DefaultBackoff,
		LoginPath: loginPath,
	}
}

type ListResponse[T any] struct {
	Results []T `json:"results"`
	Page
	Header  map[string]interface{} `json:"header"`
	Actions map[string]string      `json:"actions"`
}

type RelationPayload struct {
	Kind       RelationKind `json:"kind"`
	Label      string       `json:"label"`
	Items      interface{}  `json:"items"`
	Pagination *Page        `json:"pagination,omitempty"`
	CreateForm *Form        `json:"create_form,omitempty"`
	UpdateForm *Form        `json:"update_form,omitempty"`
}

type DetailResponse[T any] struct {
	Object    T                          `json:"object"`
	Relations map[string]RelationPayload `json:"relations,omitempty"`
	Actions   map[string]string          `json:"actions"`
}

type handler[T any, I any] struct {
	reg *Registry
	res *Resource[T, I]
}

// Mount registers the resource's capabilities, route names and routes.
func Mount[T any, I any](reg *Registry, rg *gin.RouterGroup, res *Resource[T, I]) {
	reg.Policy.Register(res.Module, res.Entity)
	if res.DeleteRoute == "" {
		res.DeleteRoute = res.RouteName(ActList)
	}

	h := &handler[T, I]{reg: reg, res: res}
	base := res.Path
	full := path.Join(rg.BasePath(), base)

	reg.URLs.Add(res.RouteName(ActList), full)
	if res.allows(ActList) {
		rg.GET(base, h.gate(ActList), h.list)
	}
	if res.allows(ActCreate) {
		reg.URLs.Add(res.RouteName(ActCreate), full+"/create")
		rg.GET(base+"/form", h.gate(ActCreate), h.form)
		rg.POST(base+"/create", h.gate(ActCreate), h.create)
	}
	if res.allows(ActDetail) {
		reg.URLs.Add(res.RouteName(ActDetail), full+"/:pk")
		rg.GET(base+"/:pk", h.gate(ActDetail), h.detail)
	}
	if res.allows(ActUpdate) {
		reg.URLs.Add(res.RouteName(ActUpdate), full+"/:pk/update")
		rg.POST(base+"/:pk/update", h.gate(ActUpdate), h.update)
	}
	if res.allows(ActDelete) {
		reg.URLs.Add(res.RouteName(ActDelete), full+"/:pk/delete")
		rg.POST(base+"/:pk/delete", h.gate(ActDelete), h.delete)
	}
}

// Gate enforces login and one capability for a custom route.
func Gate(reg *Registry, capability auth.Capability) gin.HandlerFunc {
	reg.Policy.MustKnow(capability)
	return func(c *gin.Context) {
		actor := auth.CurrentActor(c)
		if actor == nil {
			target := reg.LoginPath + "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}

		allowed, err := reg.Policy.Check(actor, capability)
		if err != nil {
			logger.Error("capability check failed", "capability", capability.String(), "error", err.Error())
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: msgUnexpected})
			c.Abort()
			return
		}
		if !allowed {
			logger.Info("permission denied", "user_id", actor.UserID, "capability", capability.String())
			c.JSON(http.StatusForbidden, api.ErrorResponse{Error: api.ForbiddenMessage})
			c.Abort()
			return
		}
		c.Next()
	}
}

func (h *handler[T, I]) gate(a Action) gin.HandlerFunc {
	return Gate(h.reg, h.res.Capability(a))
}

func (h *handler[T, I]) actions(actor *auth.Actor) map[string]string {
	out := map[string]string{}
	for _, a := range []Action{ActCreate, ActDetail, ActUpdate, ActDelete} {
		if !h.res.allows(a) {
			continue
		}
		if ok, _ := h.reg.Policy.Check(actor, h.res.Capability(a)); ok {
			out[string(a)] = h.res.RouteName(a)
		}
	}
	return out
}

func (h *handler[T, I]) beforeRead(c *gin.Context) bool {
	if h.res.BeforeRead == nil {
		return true
	}
	if err := h.res.BeforeRead(c.Request.Context()); err != nil {
		logger.Error("pre-read hook failed", "entity", h.res.Entity, "error", err.Error())
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: msgUnexpected})
		return false
	}
	return true
}

func (h *handler[T, I]) list(c *gin.Context) {
	if !h.beforeRead(c) {
		return
	}
	ctx := c.Request.Context()

	f := NewFilter(c.Request.URL.Query())
	if h.res.Filters != nil {
		h.res.Filters(f)
	}
	if errs := f.Errors(); errs != nil {
		h.invalid(c, errs)
		return
	}

	header, err := h.res.Table.Header(ctx, h.reg.DB, f)
	if err != nil {
		h.fail(c, err)
		return
	}
	count, _ := header["total_count"].(int)
	page := NewPage(c.Query("page"), count, PageSize)

	rows := []T{}
	if err := h.res.Table.List(ctx, h.reg.DB, &rows, f, page.Limit(), page.Offset()); err != nil {
		h.fail(c, err)
		return
	}
	h.res.decorate(rows)

	c.JSON(http.StatusOK, ListResponse[T]{
		Results: rows,
		Page:    page,
		Header:  header,
		Actions: h.actions(auth.CurrentActor(c)),
	})
}

func (h *handler[T, I]) form(c *gin.Context) {
	c.JSON(http.StatusOK, h.res.FormSchema())
}

func (h *handler[T, I]) detail(c *gin.Context) {
	id, ok := PK(c)
	if !ok {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: h.res.Label + " not found"})
		return
	}
	if !h.beforeRead(c) {
		return
	}
	ctx := c.Request.Context()

	var obj T
	if err := h.res.Table.Get(ctx, h.reg.DB, &obj, id); err != nil {
		h.fail(c, err)
		return
	}
	if h.res.Decorate != nil {
		h.res.Decorate(&obj)
	}

	var relations map[string]RelationPayload
	if len(h.res.Relations) > 0 {
		relations = make(map[string]RelationPayload, len(h.res.Relations))
		for _, rel := range h.res.Relations {
			payload, err := h.loadRelation(ctx, rel, id, c.Query(rel.Name+"_page"))
			if err != nil {
				h.fail(c, err)
				return
			}
			relations[rel.Name] = payload
		}
	}

	c.JSON(http.StatusOK, DetailResponse[T]{
		Object:    obj,
		Relations: relations,
		Actions:   h.actions(auth.CurrentActor(c)),
	})
}

func (h *handler[T, I]) loadRelation(ctx context.Context, rel Relation, parentID int, rawPage string) (RelationPayload, error) {
	payload := RelationPayload{Kind: rel.Kind, Label: rel.Label}

	update := rel.Form
	create := rel.Form
	if rel.ForeignKey != "" {
		create = rel.Form.WithInitial(map[string]interface{}{rel.ForeignKey: parentID})
	}
	payload.UpdateForm = &update

	if rel.Kind == RelationOneToOne {
		items, err := rel.Load(ctx, h.reg.DB, parentID, 1, 0)
		if err != nil {
			return payload, err
		}
		payload.Items = items
		return payload, nil
	}

	size := rel.PageSize
	if size <= 0 {
		size = RelationPageSize
	}
	total, err := rel.Count(ctx, h.reg.DB, parentID)
	if err != nil {
		return payload, err
	}
	page := NewPage(rawPage, total, size)
	items, err := rel.Load(ctx, h.reg.DB, parentID, page.Limit(), page.Offset())
	if err != nil {
		return payload, err
	}

	payload.Items = items
	payload.Pagination = &page
	payload.CreateForm = &create
	return payload, nil
}

func (h *handler[T, I]) bind(c *gin.Context) (*I, bool) {
	in := new(I)
	if !h.reg.Bind(c, in) {
		return nil, false
	}
	return in, true
}

func (h *handler[T, I]) create(c *gin.Context) {
	in, ok := h.bind(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	actor := auth.CurrentActor(c)

	var id int
	err := h.reg.Write(ctx, h.res.Entity, func(tx *sqlx.Tx) error {
		var err error
		id, err = h.res.Writer.Create(ctx, tx, actor, in)
		return err
	})
	h.respond(c, err, id, ActCreate)
}

func (h *handler[T, I]) update(c *gin.Context) {
	id, ok := PK(c)
	if !ok {
		c.JSON(http.StatusNotFound, api.AckResponse{Status: "error", Message: h.res.Label + " not found"})
		return
	}
	in, ok := h.bind(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	actor := auth.CurrentActor(c)

	err := h.reg.Write(ctx, h.res.Entity, func(tx *sqlx.Tx) error {
		return h.res.Writer.Update(ctx, tx, actor, id, in)
	})
	h.respond(c, err, id, ActUpdate)
}

func (h *handler[T, I]) delete(c *gin.Context) {
	id, ok := PK(c)
	if !ok {
		c.JSON(http.StatusNotFound, api.AckResponse{Status: "error", Message: h.res.Label + " not found"})
		return
	}
	ctx := c.Request.Context()

	err := h.reg.Write(ctx, h.res.Entity, func(tx *sqlx.Tx) error {
		return h.res.Table.Delete(ctx, tx, id)
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	logger.Info("record deleted", "entity", h.res.Entity, "id", id)
	h.afterCommit(ctx, c, id, ActDelete)
	target := h.reg.URLs.Resolve(c.Query("redirect_url"), c.Query("redirect_pk"), h.res.DeleteRoute)
	c.Redirect(http.StatusSeeOther, target)
}

// Write runs fn in one transaction and retries it on lock contention.
func (reg *Registry) Write(ctx context.Context, entity string, fn func(tx *sqlx.Tx) error) error {
	attempts, err := db.Retry(ctx, reg.Backoff, func() error {
		return db.WithTx(ctx, reg.DB, fn)
	})
	if attempts > 1 {
		outcome := "recovered"
		if errors.Is(err, db.ErrUnavailable) {
			outcome = "exhausted"
		}
		metrics.RecordCRUDRetry(entity, outcome)
		logger.Warn("write retried after lock contention", "entity", entity, "attempts", attempts, "outcome", outcome)
	}
	return err
}

func (h *handler[T, I]) afterCommit(ctx context.Context, c *gin.Context, id int, a Action) {
	if h.res.AfterCommit != nil {
		h.res.AfterCommit(ctx, auth.CurrentActor(c), id, a)
	}
}

func (h *handler[T, I]) respond(c *gin.Context, err error, id int, a Action) {
	if err != nil {
		h.fail(c, err)
		return
	}

	h.afterCommit(c.Request.Context(), c, id, a)

	redirect := ""
	switch {
	case c.Query("redirect_url") != "":
		redirect = h.reg.URLs.Resolve(c.Query("redirect_url"), c.Query("redirect_pk"), h.res.RouteName(ActList))
	case h.res.SuccessRoute != "":
		redirect, _ = h.reg.URLs.Reverse(h.res.SuccessRoute, itoa(id))
	}

	c.JSON(http.StatusOK, api.AckResponse{
		Status:      "success",
		Message:     h.res.Label + " saved successfully",
		ID:          id,
		RedirectURL: redirect,
	})
}

func (h *handler[T, I]) invalid(c *gin.Context, errs ValidationErrors) {
	Invalid(c, errs)
}

func (h *handler[T, I]) fail(c *gin.Context, err error) {
	Fail(c, h.res.Label, err)
}

// Invalid answers a submission that did not pass validation.
func Invalid(c *gin.Context, errs ValidationErrors) {
	c.JSON(http.StatusBadRequest, api.AckResponse{
		Status:    "error",
		Message:   msgValidationFailed,
		ErrorList: errs,
	})
}

// Fail maps the error taxonomy onto HTTP responses.
func Fail(c *gin.Context, label string, err error) {
	var verrs ValidationErrors
	var conflict Conflict

	switch {
	case errors.As(err, &verrs):
		Invalid(c, verrs)
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, api.AckResponse{Status: "error", Message: label + " not found"})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, api.AckResponse{Status: "error", Message: conflict.Message})
	case errors.Is(err, db.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, api.AckResponse{Status: "error", Message: msgUnavailable})
	default:
		logger.Error("request failed", "label", label, "path", c.FullPath(), "error", err.Error())
		c.JSON(http.StatusInternalServerError, api.AckResponse{Status: "error", Message: msgUnexpected})
	}
}

// Bind decodes and validates a JSON submission, answering 400 when it fails.
func (reg *Registry) Bind(c *gin.Context, in interface{}) bool {
	if err := c.ShouldBindJSON(in); err != nil {
		Invalid(c, BindError(err))
		return false
	}
	if errs := reg.Validator.Validate(in); errs != nil {
		Invalid(c, errs)
		return false
	}
	return true
}

// PK reads the :pk path parameter.
func PK(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("pk"))
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
