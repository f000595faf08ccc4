package http

import (
	"errors"
	"log"
	"net/http"

	"globetrotter-service/internal/app"
	"globetrotter-service/internal/domain"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
)

const qrSize = 256

// Handler exposes the game use cases over REST.
type Handler struct {
	service *app.GameService
}

func NewHandler(service *app.GameService) *Handler {
	return &Handler{service: service}
}

// Router builds the gin engine with CORS, the JSON API, and the embedded web client.
// An empty origins list allows every origin.
func Router(service *app.GameService, corsOrigins []string) *gin.Engine {
	h := NewHandler(service)

	router := gin.Default()

	corsCfg := cors.DefaultConfig()
	if len(corsOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = corsOrigins
	}
	corsCfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Content-Type"}
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	router.POST("/register", h.Register)
	router.GET("/questions", h.Questions)
	router.POST("/submit-answer", h.SubmitAnswer)
	router.GET("/score", h.Score)
	router.POST("/getUserById", h.UserByReferralCode)
	router.POST("/next-question", h.NextQuestion)
	router.GET("/challenge-qr", h.ChallengeQR)

	router.NoRoute(staticHandler())

	return router
}

type registerRequest struct {
	Username     string `json:"username"`
	ReferralCode string `json:"referralCode"`
}

func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.BindJSON(&req); err != nil {
		return
	}

	result, err := h.service.Register(c.Request.Context(), req.Username, req.ReferralCode)
	if errors.Is(err, domain.ErrUsernameRequired) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		log.Printf("register failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error registering user", "error": err.Error()})
		return
	}
	if result.AlreadyRegistered {
		c.JSON(http.StatusOK, gin.H{"message": "Username already registered."})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully!", "user": result.User})
}

func (h *Handler) Questions(c *gin.Context) {
	questions, err := h.service.Questions(c.Request.Context())
	if err != nil {
		log.Printf("list questions failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if questions == nil {
		questions = []domain.Question{}
	}
	c.JSON(http.StatusOK, questions)
}

type submitAnswerRequest struct {
	Username      string `json:"username"`
	Answer        string `json:"answer"`
	CorrectAnswer string `json:"correctAnswer"`
}

func (h *Handler) SubmitAnswer(c *gin.Context) {
	var req submitAnswerRequest
	if err := c.BindJSON(&req); err != nil {
		return
	}

	result, _, err := h.service.SubmitAnswer(c.Request.Context(), req.Username, req.Answer, req.CorrectAnswer)
	if errors.Is(err, domain.ErrUserNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User not registered"})
		return
	}
	if err != nil {
		log.Printf("submit answer failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) Score(c *gin.Context) {
	username := c.Query("username")
	user, err := h.service.Score(c.Request.Context(), username)
	if errors.Is(err, domain.ErrUserNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User not registered"})
		return
	}
	if err != nil {
		log.Printf("fetch score failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, user)
}

type referralRequest struct {
	ReferralCode string `json:"referralCode"`
}

func (h *Handler) UserByReferralCode(c *gin.Context) {
	var req referralRequest
	if err := c.BindJSON(&req); err != nil {
		return
	}

	user, err := h.service.ResolveReferral(c.Request.Context(), req.ReferralCode)
	if errors.Is(err, domain.ErrInvalidReferralCode) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Incorrect referral code"})
		return
	}
	if err != nil {
		log.Printf("resolve referral failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, user)
}

type nextQuestionRequest struct {
	Username string `json:"username"`
}

func (h *Handler) NextQuestion(c *gin.Context) {
	var req nextQuestionRequest
	if err := c.BindJSON(&req); err != nil {
		return
	}

	round, err := h.service.NextQuestion(c.Request.Context(), req.Username)
	if errors.Is(err, domain.ErrUserNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User not registered"})
		return
	}
	if err != nil {
		log.Printf("next question failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, round)
}

// ChallengeQR renders the player's challenge link as a PNG QR code.
func (h *Handler) ChallengeQR(c *gin.Context) {
	username := c.Query("username")
	user, err := h.service.Score(c.Request.Context(), username)
	if errors.Is(err, domain.ErrUserNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User not registered"})
		return
	}
	if err != nil {
		log.Printf("challenge qr failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	link := challengeLink(c.Request, user.ReferralCode)
	png, err := qrcode.Encode(link, qrcode.Medium, qrSize)
	if err != nil {
		log.Printf("encode qr failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// challengeLink builds the shareable invite URL carrying the referral code.
func challengeLink(r *http.Request, referralCode string) string {
	scheme := "http"
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	} else if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + "/?invitedBy=" + referralCode
}
