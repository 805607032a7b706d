package api

import (
	"github.com/gin-gonic/gin"
	"github.com/qvantel/synapse/api/types"
	"github.com/qvantel/synapse/internal/config"
	"github.com/qvantel/synapse/internal/logger"
	"github.com/qvantel/synapse/internal/nets/paramstores"
	"github.com/qvantel/synapse/internal/samples/samplestores"
)

// Handler holds the API's state
type Handler struct {
	Conf   config.Config
	NPS    paramstores.NetParamStore
	SS     samplestores.SampleStore
	Router *gin.Engine
	TServ  chan types.TrainRequest
}

// @title Synapse
// @version 1.0
// @description Synapse provides machine learning as a service.

// @host localhost:5400
// @BasePath /api/v1

// New initializes the Gin rest api and returns a handler
func New(tServ chan types.TrainRequest, conf config.Config) (*Handler, error) {
	// Set up net param store
	nps, err := paramstores.New(conf)
	if err != nil {
		logger.Error("Failed to initialize net param store for the API", err)
		return nil, err
	}

	// Set up sample store
	ss, err := samplestores.New(conf)
	if err != nil {
		logger.Error("Failed to initialize sample store for the API", err)
		return nil, err
	}

	router := gin.New()

	h := Handler{
		Conf:   conf,
		NPS:    nps,
		SS:     ss,
		Router: router,
		TServ:  tServ,
	}

	// Global middleware
	router.Use(gin.LoggerWithFormatter(logger.GinFormatter))
	router.Use(gin.Recovery())

	// Routes
	v1 := router.Group("/api/v1")
	{
		health := v1.Group("/health")
		{
			health.GET("/startup", StartupCheck)
		}
		nets := v1.Group("/nets")
		{
			nets.GET("", h.ListNets)
			nets.POST("", h.Train)
			nets.DELETE("/:id", h.DeleteNet)
			nets.POST("/:id/evaluate", h.Evaluate)
		}
		sets := v1.Group("/sets")
		{
			sets.GET("", h.ListSets)
			sets.DELETE("/:id", h.DeleteSet)
			sets.GET("/:id/samples", h.ListSamples)
			sets.POST("/process", h.AddSamples)
		}
	}

	logger.Info("API initialized")
	return &h, nil
}
