package learning

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/yungbote/bookforge-backend/internal/domain"
	"github.com/yungbote/bookforge-backend/internal/learning/intent"
	"github.com/yungbote/bookforge-backend/internal/learning/pipeline"
	"github.com/yungbote/bookforge-backend/internal/learning/steps"
	"github.com/yungbote/bookforge-backend/internal/observability"
	"github.com/yungbote/bookforge-backend/internal/platform/logger"
	"github.com/yungbote/bookforge-backend/internal/profile"
)

const pipelineName = "toc_build"

// Deps wires the usecases to their external collaborators.
type Deps struct {
	Log      *logger.Logger
	AI       steps.TextGenerator
	Profiles profile.Source
}

// Usecases orchestrates the ToC build pipeline: profile load, intent
// classification, context assembly, strategic planning, knowledge synthesis,
// review, and draft assembly. Planner and synthesizer failures never abort a
// request; their fallbacks flow through like ordinary results.
type Usecases struct {
	log         *logger.Logger
	ai          steps.TextGenerator
	profiles    profile.Source
	classifier  *intent.Classifier
	planner     *steps.Planner
	synthesizer *steps.Synthesizer
	reviewer    *steps.CollabReviewer
}

func NewUsecases(d Deps) (*Usecases, error) {
	if d.AI == nil {
		return nil, fmt.Errorf("text generator required")
	}
	log := d.Log
	if log == nil {
		log = logger.NewNop()
	}
	profiles := d.Profiles
	if profiles == nil {
		profiles = profile.NewStaticSource()
	}
	return &Usecases{
		log:         log.With("service", "LearningUsecases"),
		ai:          d.AI,
		profiles:    profiles,
		classifier:  intent.NewClassifier(log, d.AI),
		planner:     steps.NewPlanner(log, d.AI),
		synthesizer: steps.NewSynthesizer(log, d.AI),
		reviewer:    steps.NewCollabReviewer(),
	}, nil
}

// BuildRequest describes one ToC build. Topic overrides the topic the intent
// classifier extracts from Message; one of the two should be present.
type BuildRequest struct {
	RequestID string
	UserID    string
	Message   string
	Topic     string
	Knowledge []domain.BookSummary
	Resources []domain.Resource
}

// BuildResult is the full pipeline output. FromModel flags distinguish
// generated results from deterministic fallbacks.
type BuildResult struct {
	RequestID string
	Intent    domain.IntentClassification

	Plan          domain.ExecutionPlan
	PlanFromModel bool

	Structure          domain.BookStructure
	StructureFromModel bool

	Approved bool
	Feedback string
	Draft    string
}

// BuildToC runs the stages from the pipeline spec in order. The returned
// error is non-nil only for programmer errors or request cancellation; under
// total generation failure the request still completes on fallbacks.
func (u *Usecases) BuildToC(ctx context.Context, req BuildRequest) (BuildResult, error) {
	if strings.TrimSpace(req.RequestID) == "" {
		req.RequestID = uuid.NewString()
	}
	log := u.log.With("request_id", req.RequestID, "user_id", req.UserID)

	m := observability.Current()
	m.BuildStarted()
	defer m.BuildFinished()

	tracer := otel.Tracer("bookforge/learning")
	ctx, span := tracer.Start(ctx, pipelineName)
	span.SetAttributes(attribute.String("request_id", req.RequestID))
	defer span.End()

	res := BuildResult{RequestID: req.RequestID}
	asm := steps.NewAssembler(log)
	var persona *domain.UserPersona
	topic := strings.TrimSpace(req.Topic)

	for _, stage := range pipeline.StageOrder(log) {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		start := time.Now()
		stageCtx, stageSpan := tracer.Start(ctx, "stage."+stage)
		status := "ok"
		var stageErr error

		switch stage {
		case "profile_load":
			p, err := u.profiles.Load(stageCtx, req.UserID)
			if err != nil {
				log.Warn("profile load failed; using default persona", "error", err)
				status = "fallback"
			} else {
				persona = p
			}

		case "intent_classify":
			if strings.TrimSpace(req.Message) != "" {
				res.Intent = u.classifier.Classify(stageCtx, req.Message)
				if topic == "" {
					topic = strings.TrimSpace(res.Intent.Topic)
				}
			}

		case "context_assemble":
			asm.Assemble(persona, topic, req.Knowledge, req.Resources)

		case "strategic_plan":
			plan, fromModel, err := u.planner.Plan(stageCtx, asm)
			if err != nil {
				status = "error"
				stageErr = err
				break
			}
			res.Plan = plan
			res.PlanFromModel = fromModel
			if !fromModel {
				status = "fallback"
			}

		case "knowledge_synthesize":
			book, fromModel, err := u.synthesizer.Synthesize(stageCtx, asm, &res.Plan)
			if err != nil {
				status = "error"
				stageErr = err
				break
			}
			res.Structure = book
			res.StructureFromModel = fromModel
			if !fromModel {
				status = "fallback"
			}

		case "collab_review":
			review := u.reviewer.Review(res.Structure)
			res.Approved = review.Approved
			res.Feedback = review.Feedback
			res.Structure = review.Structure

		case "draft_assemble":
			res.Draft = steps.AssembleDraft(res.Structure)

		default:
			log.Warn("unknown pipeline stage; skipping", "stage", stage)
			status = "skipped"
		}

		stageSpan.SetAttributes(attribute.String("status", status))
		stageSpan.End()
		m.ObserveBuildStage(pipelineName, stage, status, time.Since(start))

		if stageErr != nil {
			log.Error("pipeline stage failed", "stage", stage, "error", stageErr)
			return res, stageErr
		}
	}

	log.Info("toc build complete",
		"plan_from_model", res.PlanFromModel,
		"structure_from_model", res.StructureFromModel,
		"chapters", len(res.Structure.Chapters),
	)
	return res, nil
}
