package detection

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dyleth/fraudshield/internal/domain/fraud"
	"github.com/dyleth/fraudshield/internal/domain/report"
	"github.com/dyleth/fraudshield/internal/telemetry"
	"github.com/google/uuid"
)

// service implements the Service interface
type service struct {
	cache      VerdictCache
	registry   Registry
	classifier Classifier
	embedder   Embedder
	index      SimilarityIndex
	audit      AuditSink
	logger     *zap.Logger

	corroborationTimeout time.Duration
}

// Option configures the detection service.
type Option func(*service)

// WithCorroborationTimeout bounds each embedding and similarity-search call.
func WithCorroborationTimeout(d time.Duration) Option {
	return func(s *service) {
		if d > 0 {
			s.corroborationTimeout = d
		}
	}
}

// NewService creates the detection pipeline with explicit collaborators.
// Cache, embedder and index may be disabled handles; registry, classifier
// and audit sink are required.
func NewService(
	cache VerdictCache,
	registry Registry,
	classifier Classifier,
	embedder Embedder,
	index SimilarityIndex,
	audit AuditSink,
	logger *zap.Logger,
	opts ...Option,
) Service {
	s := &service{
		cache:                cache,
		registry:             registry,
		classifier:           classifier,
		embedder:             embedder,
		index:                index,
		audit:                audit,
		logger:               logger,
		corroborationTimeout: DefaultCorroborationTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// cachedPhoneVerdict is the cache envelope for phone verdicts. The method
// travels with the verdict so replayed hits are audited under the stage
// that originally produced them.
type cachedPhoneVerdict struct {
	Verdict PhoneVerdict `json:"verdict"`
	Method  Method       `json:"method"`
}

// CheckPhone runs the phone pipeline: cache, registry, then classifier.
func (s *service) CheckPhone(ctx context.Context, req *PhoneCheckRequest) (*PhoneVerdict, error) {
	start := time.Now()
	defer s.observe(ChannelPhone, start)

	// Normalize once: the cache key and the registry lookup must agree on
	// one spelling or formatting variants would shadow registry hits.
	normalized := fraud.NormalizePhone(req.Phone)

	meta := map[string]interface{}{"phone": req.Phone, "country": req.Country}
	cacheKey := phoneCacheKeyPrefix + normalized

	if s.cache != nil {
		var cached cachedPhoneVerdict
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			verdict := cached.Verdict
			verdict.ResponseTimeMs = elapsedMs(start)
			s.logDetection(ctx, req.UserID, ChannelPhone, verdict.IsFraud, verdict.Confidence, cached.Method, verdict.ResponseTimeMs, meta)
			return &verdict, nil
		}
	}

	entry, err := s.registry.FindNumber(ctx, normalized)
	if err != nil {
		// Registry trouble degrades to the classifier path.
		s.logger.Warn("phone registry lookup failed", zap.Error(err))
		entry = nil
	}

	if entry != nil {
		category := string(entry.FraudType)
		verdict := &PhoneVerdict{
			IsFraud:        true,
			Confidence:     entry.ConfidenceScore,
			Category:       &category,
			Reason:         fmt.Sprintf("Signalé %d fois", entry.ReportCount),
			Action:         ActionBlock,
			SimilarCases:   entry.ReportCount,
			ResponseTimeMs: elapsedMs(start),
		}
		s.cachePhoneVerdict(ctx, cacheKey, verdict, MethodBlacklist, blacklistVerdictTTL)
		s.logDetection(ctx, req.UserID, ChannelPhone, true, entry.ConfidenceScore, MethodBlacklist, verdict.ResponseTimeMs, meta)
		return verdict, nil
	}

	pred, err := s.classifier.PredictPhone(ctx, req.Phone, PhoneFeatures{Hour: 14, CallCount: 1})
	if err != nil {
		// The classifier contract handles malformed input itself; an error
		// here is infrastructure trouble and yields the degraded allow.
		s.logger.Warn("phone classifier failed", zap.Error(err))
		pred = &PhonePrediction{}
	}

	verdict := &PhoneVerdict{
		IsFraud:        pred.IsFraud,
		Confidence:     pred.Confidence,
		Reason:         "Numéro non signalé",
		Action:         ActionAllow,
		SimilarCases:   0,
		ResponseTimeMs: elapsedMs(start),
	}
	if pred.IsFraud {
		category := "suspected_scam"
		verdict.Category = &category
		verdict.Reason = "Analyse ML"
		verdict.Action = ActionBlock
	}
	s.cachePhoneVerdict(ctx, cacheKey, verdict, MethodML, classifierVerdictTTL)
	s.logDetection(ctx, req.UserID, ChannelPhone, pred.IsFraud, pred.Confidence, MethodML, verdict.ResponseTimeMs, meta)
	return verdict, nil
}

// CheckSMS runs the SMS pipeline: classifier, then the low-confidence
// semantic corroboration gate. SMS verdicts are not cached; message bodies
// are too high-entropy to key a bounded cache on.
func (s *service) CheckSMS(ctx context.Context, req *SMSCheckRequest) (*SMSVerdict, error) {
	start := time.Now()
	defer s.observe(ChannelSMS, start)

	pred, err := s.classifier.PredictText(ctx, req.Content, req.Sender)
	if err != nil {
		s.logger.Warn("sms classifier failed", zap.Error(err))
		pred = &TextPrediction{RiskFactors: []string{}}
	}

	isFraud := pred.IsFraud
	confidence := pred.Confidence
	riskFactors := pred.RiskFactors
	if riskFactors == nil {
		riskFactors = []string{}
	}

	if confidence < corroborationGate {
		if hits, ok := s.corroborate(ctx, req.Content); ok {
			isFraud = true
			if confidence < corroboratedConfidence {
				confidence = corroboratedConfidence
			}
			riskFactors = append(riskFactors, fmt.Sprintf("%d cas similaires signalés", hits))
		}
	}

	verdict := &SMSVerdict{
		IsFraud:        isFraud,
		Confidence:     confidence,
		RiskFactors:    riskFactors,
		Action:         ActionAllow,
		SimilarFrauds:  0,
		ResponseTimeMs: elapsedMs(start),
	}
	logCategory := "unknown"
	if isFraud {
		category := "phishing"
		verdict.Category = &category
		verdict.Action = ActionBlockLink
		logCategory = "phishing"
	}

	// Method reflects pipeline capability, not whether the fallback fired.
	s.logDetection(ctx, req.UserID, ChannelSMS, isFraud, confidence, MethodMLRAG, verdict.ResponseTimeMs, map[string]interface{}{
		"content":  truncate(req.Content, 500),
		"sender":   req.Sender,
		"category": logCategory,
	})
	return verdict, nil
}

// CheckEmail runs the email pipeline: domain registry lookup, then the
// shared text classifier over subject+body. No corroboration step here.
func (s *service) CheckEmail(ctx context.Context, req *EmailCheckRequest) (*EmailVerdict, error) {
	start := time.Now()
	defer s.observe(ChannelEmail, start)

	meta := map[string]interface{}{
		"sender":         req.Sender,
		"subject":        req.Subject,
		"has_attachment": false,
	}

	domain := ""
	if parts := strings.Split(req.Sender, "@"); len(parts) > 1 {
		domain = parts[1]
	}

	entry, err := s.registry.FindDomain(ctx, domain)
	if err != nil {
		s.logger.Warn("domain registry lookup failed", zap.Error(err))
		entry = nil
	}

	if entry != nil {
		phishingType := entry.PhishingType
		verdict := &EmailVerdict{
			IsFraud:        true,
			Confidence:     entry.ReputationScore,
			PhishingType:   &phishingType,
			RiskFactors:    []string{"Domaine signalé comme frauduleux"},
			SenderVerified: false,
			SPFValid:       entry.SPFValid,
			DKIMValid:      entry.DKIMValid,
			Action:         ActionBlock,
			ResponseTimeMs: elapsedMs(start),
		}
		s.logDetection(ctx, req.UserID, ChannelEmail, true, entry.ReputationScore, MethodBlacklist, verdict.ResponseTimeMs, meta)
		return verdict, nil
	}

	// Email bodies are scored through the SMS contract; a single shared
	// text risk scorer, not a second divergent path.
	pred, err := s.classifier.PredictText(ctx, req.Subject+" "+req.Body, req.Sender)
	if err != nil {
		s.logger.Warn("email classifier failed", zap.Error(err))
		pred = &TextPrediction{}
	}

	verdict := &EmailVerdict{
		IsFraud:        pred.IsFraud,
		Confidence:     pred.Confidence,
		RiskFactors:    []string{},
		SenderVerified: false,
		SPFValid:       false,
		DKIMValid:      false,
		Action:         ActionAllow,
		ResponseTimeMs: elapsedMs(start),
	}
	if pred.IsFraud {
		phishingType := "suspected"
		verdict.PhishingType = &phishingType
		verdict.RiskFactors = []string{"Contenu suspect"}
		verdict.Action = ActionWarn
	}
	s.logDetection(ctx, req.UserID, ChannelEmail, pred.IsFraud, pred.Confidence, MethodML, verdict.ResponseTimeMs, meta)
	return verdict, nil
}

// corroborate embeds content and counts near-duplicate flagged neighbors.
// Any backend trouble reads as "no corroboration available".
func (s *service) corroborate(ctx context.Context, content string) (int, bool) {
	if s.embedder == nil || !s.embedder.Enabled() || s.index == nil || !s.index.Enabled() {
		telemetry.CorroborationChecks.WithLabelValues("unavailable").Inc()
		return 0, false
	}

	embedCtx, cancel := context.WithTimeout(ctx, s.corroborationTimeout)
	vector, err := s.embedder.Embed(embedCtx, content)
	cancel()
	if err != nil || len(vector) == 0 {
		if err != nil {
			s.logger.Debug("embedding unavailable", zap.Error(err))
		}
		telemetry.CorroborationChecks.WithLabelValues("unavailable").Inc()
		return 0, false
	}

	searchCtx, cancel := context.WithTimeout(ctx, s.corroborationTimeout)
	neighbors, err := s.index.Search(searchCtx, vector, similaritySearchLimit)
	cancel()
	if err != nil {
		s.logger.Debug("similarity search unavailable", zap.Error(err))
		telemetry.CorroborationChecks.WithLabelValues("unavailable").Inc()
		return 0, false
	}

	hits := 0
	for _, n := range neighbors {
		if n.Score >= similarityThreshold {
			hits++
		}
	}
	if hits < corroborationMinHits {
		telemetry.CorroborationChecks.WithLabelValues("miss").Inc()
		return hits, false
	}
	telemetry.CorroborationChecks.WithLabelValues("corroborated").Inc()
	return hits, true
}

func (s *service) cachePhoneVerdict(ctx context.Context, key string, verdict *PhoneVerdict, method Method, ttl time.Duration) {
	if s.cache == nil {
		return
	}
	// The write outlives a client disconnect; the verdict was produced and
	// should be reusable.
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := s.cache.Set(wctx, key, cachedPhoneVerdict{Verdict: *verdict, Method: method}, ttl); err != nil {
		s.logger.Warn("verdict cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// logDetection appends the audit entry for a detection call. Failures are
// swallowed; detection-serving availability wins over is-logged guarantees.
func (s *service) logDetection(ctx context.Context, userID *uuid.UUID, channel Channel, isFraud bool, confidence float64, method Method, responseTimeMs int, meta map[string]interface{}) {
	telemetry.DetectionRequests.WithLabelValues(string(channel), string(method), strconv.FormatBool(isFraud)).Inc()

	entry := &report.DetectionLog{
		UserID:         userID,
		DetectionType:  string(channel),
		IsFraud:        isFraud,
		Confidence:     confidence,
		MethodUsed:     string(method),
		ResponseTimeMs: responseTimeMs,
		Timestamp:      time.Now().UTC(),
		ModelVersion:   modelVersion,
		Metadata:       meta,
	}

	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.audit.Append(wctx, entry); err != nil {
		telemetry.AuditWriteFailures.Inc()
		s.logger.Error("detection audit write failed",
			zap.String("channel", string(channel)),
			zap.String("method", string(method)),
			zap.Error(err))
	}
}

func (s *service) observe(channel Channel, start time.Time) {
	telemetry.DetectionDuration.WithLabelValues(string(channel)).Observe(time.Since(start).Seconds())
}

func elapsedMs(start time.Time) int {
	ms := int(time.Since(start).Milliseconds())
	if ms < 0 {
		return 0
	}
	return ms
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
