// Package api assembles the HTTP surface: conversion uploads, Google Books
// search and conversion, and health probes.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/hermesdeck/hermes/internal/api/handlers"
	"github.com/hermesdeck/hermes/internal/api/middleware"
	"github.com/hermesdeck/hermes/internal/books"
	"github.com/hermesdeck/hermes/internal/config"
	"github.com/hermesdeck/hermes/internal/document"
	"github.com/hermesdeck/hermes/internal/pipeline"
	"github.com/hermesdeck/hermes/internal/summarize"
)

type Router struct {
	mux *chi.Mux
	cfg *config.Config
	ocr document.OCRClient // nil when OCR is unavailable
}

func NewRouter(cfg *config.Config, ocr document.OCRClient) *Router {
	return &Router{
		mux: chi.NewRouter(),
		cfg: cfg,
		ocr: ocr,
	}
}

func (rt *Router) Setup() (http.Handler, error) {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	// Conversions hold a model connection for their whole duration.
	rl := middleware.NewRateLimiter(1, 5)

	// Health endpoints
	health := handlers.NewHealthHandler(rt.cfg, rt.ocr != nil)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	// Services
	summarizer, err := summarize.NewService(rt.cfg.Summarizer)
	if err != nil {
		return nil, err
	}
	docSvc := document.NewService(rt.ocr)
	pipelineSvc := pipeline.New(docSvc, summarizer, rt.cfg.Pipeline.ChunkSize)
	booksClient := books.New()

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rl.Limit)

		convertH := handlers.NewConvertHandler(pipelineSvc, rt.cfg.Pipeline.MaxUploadMB)
		r.Post("/convert", convertH.Convert)

		booksH := handlers.NewBooksHandler(booksClient, pipelineSvc)
		r.Route("/books", func(r chi.Router) {
			r.Get("/search", booksH.Search)
			r.Post("/convert", booksH.Convert)
		})
	})

	return r, nil
}
