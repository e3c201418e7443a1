package http

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"newsdesk/internal/domain"
	"newsdesk/internal/news"
	"newsdesk/internal/service"
	"newsdesk/internal/storage"
)

const (
	msgLoginRequired   = "Please log in to access this page."
	msgMissingLogin    = "Please fill in both username and password"
	msgBadLogin        = "Invalid username or password"
	msgLoggedIn        = "Logged in successfully!"
	msgLoginFailed     = "Could not log you in. Please try again."
	msgMissingFields   = "Please fill in all required fields"
	msgUsernameTaken   = "Username already exists"
	msgEmailTaken      = "Email already exists"
	msgSignupFailed    = "Error creating account. Please try again."
	msgSignedUp        = "Account created successfully! Please login."
	msgPublishFailed   = "Error publishing article. Please try again."
	msgPublished       = "Article published successfully!"
	msgImageNotAllowed = "The uploaded file must be an image"
)

// Categories offered in the navigation and publish form. They mirror the
// categories understood by the headlines service.
var Categories = []string{"business", "entertainment", "general", "health", "science", "sports", "technology"}

// ImageSaver stores an uploaded image and returns its public URL.
type ImageSaver interface {
	Save(ctx context.Context, r io.Reader) (string, error)
}

type Config struct {
	Users    service.UserService
	Articles service.ArticleService
	Sessions service.SessionService
	News     news.Fetcher
	// Images is optional; without it uploaded files are ignored.
	Images ImageSaver
	Logger *logrus.Logger

	CookieName   string
	SecureCookie bool
	RememberTTL  time.Duration
	Country      string
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	users    service.UserService
	articles service.ArticleService
	sessions service.SessionService
	news     news.Fetcher
	images   ImageSaver
	log      *logrus.Logger

	cookieName   string
	secureCookie bool
	rememberTTL  time.Duration
	country      string
}

func NewHandler(cfg Config) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.CookieName == "" {
		cfg.CookieName = "newsdesk_session"
	}
	if cfg.RememberTTL <= 0 {
		cfg.RememberTTL = 365 * 24 * time.Hour
	}
	if cfg.Country == "" {
		cfg.Country = news.DefaultCountry
	}
	return &Handler{
		users:        cfg.Users,
		articles:     cfg.Articles,
		sessions:     cfg.Sessions,
		news:         cfg.News,
		images:       cfg.Images,
		log:          cfg.Logger,
		cookieName:   cfg.CookieName,
		secureCookie: cfg.SecureCookie,
		rememberTTL:  cfg.RememberTTL,
		country:      cfg.Country,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.SetHTMLTemplate(pageTemplates)
	router.Use(requestLogger(h.log), h.loadSession())

	router.GET("/", h.home)
	router.GET("/news", h.newsPage)
	router.GET("/categories", h.categories)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": "ok"})
	})

	guest := router.Group("", h.redirectIfAuthenticated)
	{
		guest.GET("/login", h.loginForm)
		guest.POST("/login", h.login)
		guest.GET("/signup", h.signupForm)
		guest.POST("/signup", h.signup)
	}

	member := router.Group("", h.requireLogin)
	{
		member.GET("/logout", h.logout)
		member.GET("/dashboard", h.dashboard)
		member.GET("/publish", h.publishForm)
		member.POST("/publish", h.publish)
	}
}

func (h *Handler) home(c *gin.Context) {
	h.render(c, http.StatusOK, "home.html", gin.H{"PageTitle": "Home"})
}

func (h *Handler) loginForm(c *gin.Context) {
	h.render(c, http.StatusOK, "login.html", gin.H{"PageTitle": "Log in"})
}

func (h *Handler) login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	remember := c.PostForm("remember") != ""

	if username == "" || password == "" {
		h.redirectWithFlash(c, "/login", domain.FlashError, msgMissingLogin)
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), username, password)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			h.log.WithError(err).Error("authenticate user")
			h.redirectWithFlash(c, "/login", domain.FlashError, msgLoginFailed)
			return
		}
		h.redirectWithFlash(c, "/login", domain.FlashError, msgBadLogin)
		return
	}

	token, _, err := h.sessions.Start(c.Request.Context(), user.ID, remember)
	if err != nil {
		h.log.WithError(err).WithField("user_id", user.ID).Error("start session")
		h.redirectWithFlash(c, "/login", domain.FlashError, msgLoginFailed)
		return
	}
	h.setSessionCookie(c, token, remember)
	h.log.WithFields(logrus.Fields{"user_id": user.ID, "remember": remember}).Info("user logged in")
	h.redirectWithFlash(c, "/dashboard", domain.FlashSuccess, msgLoggedIn)
}

func (h *Handler) signupForm(c *gin.Context) {
	h.render(c, http.StatusOK, "signup.html", gin.H{"PageTitle": "Sign up"})
}

func (h *Handler) signup(c *gin.Context) {
	username := c.PostForm("username")
	email := c.PostForm("email")
	password := c.PostForm("password")

	if username == "" || email == "" || password == "" {
		h.redirectWithFlash(c, "/signup", domain.FlashError, msgMissingFields)
		return
	}

	user, err := h.users.Register(c.Request.Context(), username, email, password)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.Is(err, service.ErrDuplicateUsername):
			h.redirectWithFlash(c, "/signup", domain.FlashError, msgUsernameTaken)
		case errors.Is(err, service.ErrDuplicateEmail):
			h.redirectWithFlash(c, "/signup", domain.FlashError, msgEmailTaken)
		case errors.As(err, &verr):
			h.redirectWithFlash(c, "/signup", domain.FlashError, verr.Message())
		default:
			h.log.WithError(err).Error("register user")
			h.redirectWithFlash(c, "/signup", domain.FlashError, msgSignupFailed)
		}
		return
	}

	h.log.WithField("user_id", user.ID).Info("user registered")
	h.redirectWithFlash(c, "/login", domain.FlashSuccess, msgSignedUp)
}

func (h *Handler) logout(c *gin.Context) {
	if token, err := c.Cookie(h.cookieName); err == nil {
		if err := h.sessions.End(c.Request.Context(), token); err != nil {
			h.log.WithError(err).Warn("end session")
		}
	}
	h.clearSessionCookie(c)
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) dashboard(c *gin.Context) {
	userID := currentUserID(c)
	articles, err := h.articles.ListByOwner(c.Request.Context(), userID)
	if err != nil {
		h.renderError(c, err, "list dashboard articles")
		return
	}
	h.render(c, http.StatusOK, "dashboard.html", gin.H{"PageTitle": "Dashboard", "Articles": articles})
}

func (h *Handler) newsPage(c *gin.Context) {
	headlines := h.news.Fetch(c.Request.Context(), "", h.country)
	articles, err := h.articles.ListAll(c.Request.Context())
	if err != nil {
		h.renderError(c, err, "list articles")
		return
	}
	h.render(c, http.StatusOK, "news.html", gin.H{
		"PageTitle": "News",
		"Headlines": headlines,
		"Articles":  articles,
	})
}

func (h *Handler) categories(c *gin.Context) {
	category := c.Query("category")
	headlines := h.news.Fetch(c.Request.Context(), category, h.country)
	articles, err := h.articles.ListByCategory(c.Request.Context(), category)
	if err != nil {
		h.renderError(c, err, "list articles by category")
		return
	}
	h.render(c, http.StatusOK, "news.html", gin.H{
		"PageTitle":        "News",
		"Headlines":        headlines,
		"Articles":         articles,
		"SelectedCategory": category,
	})
}

func (h *Handler) publishForm(c *gin.Context) {
	h.render(c, http.StatusOK, "publish.html", gin.H{"PageTitle": "Publish"})
}

func (h *Handler) publish(c *gin.Context) {
	title := c.PostForm("title")
	content := c.PostForm("content")
	category := c.PostForm("category")
	imageURL := c.PostForm("image_url")

	if title == "" || content == "" || category == "" {
		h.redirectWithFlash(c, "/publish", domain.FlashError, msgMissingFields)
		return
	}

	if imageURL == "" && h.images != nil {
		location, err := h.saveUpload(c)
		if err != nil {
			if errors.Is(err, storage.ErrNotImage) {
				h.redirectWithFlash(c, "/publish", domain.FlashError, msgImageNotAllowed)
				return
			}
			h.log.WithError(err).Error("store article image")
			h.redirectWithFlash(c, "/publish", domain.FlashError, msgPublishFailed)
			return
		}
		imageURL = location
	}

	userID := currentUserID(c)
	article, err := h.articles.Create(c.Request.Context(), userID, title, content, category, imageURL)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			h.redirectWithFlash(c, "/publish", domain.FlashError, verr.Message())
			return
		}
		h.log.WithError(err).WithField("user_id", userID).Error("publish article")
		h.redirectWithFlash(c, "/publish", domain.FlashError, msgPublishFailed)
		return
	}

	h.log.WithFields(logrus.Fields{"user_id": userID, "article_id": article.ID}).Info("article published")
	h.redirectWithFlash(c, "/dashboard", domain.FlashSuccess, msgPublished)
}

// saveUpload stores the optional "image" file. It returns an empty location
// when the request carries no file.
func (h *Handler) saveUpload(c *gin.Context) (string, error) {
	header, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", nil
		}
		return "", err
	}
	return h.storeFile(c.Request.Context(), header)
}

func (h *Handler) storeFile(ctx context.Context, header *multipart.FileHeader) (string, error) {
	f, err := header.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	return h.images.Save(ctx, f)
}

func (h *Handler) render(c *gin.Context, status int, page string, data gin.H) {
	data["CurrentUser"] = h.currentUser(c)
	data["Flashes"] = h.popFlashes(c)
	data["Categories"] = Categories
	c.HTML(status, page, data)
}

func (h *Handler) renderError(c *gin.Context, err error, msg string) {
	h.log.WithError(err).WithField("request_id", requestID(c)).Error(msg)
	h.render(c, http.StatusInternalServerError, "error.html", gin.H{"PageTitle": "Error"})
}

func (h *Handler) currentUser(c *gin.Context) *domain.User {
	userID := currentUserID(c)
	if userID == 0 {
		return nil
	}
	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		return nil
	}
	return user
}

func (h *Handler) redirectWithFlash(c *gin.Context, location, category, message string) {
	h.addFlash(c, category, message)
	c.Redirect(http.StatusFound, location)
}

func (h *Handler) setSessionCookie(c *gin.Context, token string, remember bool) {
	maxAge := 0
	if remember {
		maxAge = int(h.rememberTTL.Seconds())
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookieName, token, maxAge, "/", "", h.secureCookie, true)
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookieName, "", -1, "/", "", h.secureCookie, true)
}
