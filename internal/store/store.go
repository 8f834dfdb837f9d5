package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/nguyentantai21042004/courseflow/internal/domain"
	"github.com/nguyentantai21042004/courseflow/internal/timing"
)

// Persist writes the entity graph for one run. Every record write is
// independent: a failed insert is recorded in the result and later writes
// still happen.
func (p *implPersister) Persist(ctx context.Context, course domain.Course, content *domain.GeneratedContent, assets map[int]domain.AudioAsset) *Result {
	result := &Result{CourseID: course.ID}

	if course.Status == "" {
		course.Status = domain.CourseStatusReady
	}
	if course.CreatedAt.IsZero() {
		course.CreatedAt = time.Now()
	}
	course.Summary = content.Summary

	if err := p.db.WithContext(ctx).Create(&course).Error; err != nil {
		p.logger.Error(ctx, "Failed to create course %s: %v", course.ID, err)
		result.Failures = append(result.Failures, Failure{Record: "course", Err: err})
	} else {
		result.CourseCreated = true
	}

	episodes := p.persistEpisodes(ctx, course.ID, content.Segments, assets, result)
	p.persistQuizzes(ctx, course.ID, episodes, content.QuizQuestions, result)

	p.logger.Info(ctx, "Persisted course %s: %d/%d episodes, %d/%d quiz questions, %d failures",
		course.ID, result.EpisodesCreated, len(content.Segments),
		result.QuizzesCreated, len(content.QuizQuestions), len(result.Failures))

	return result
}

// persistEpisodes writes one episode per segment, order 1..N in segment
// order. Every episode is built and returned even when its insert fails, so
// quiz distribution stays aligned with segment indexes.
func (p *implPersister) persistEpisodes(ctx context.Context, courseID uuid.UUID, segments []domain.Segment, assets map[int]domain.AudioAsset, result *Result) []domain.Episode {
	episodes := make([]domain.Episode, 0, len(segments))

	for i, seg := range segments {
		duration := seg.EstimatedDuration
		if duration == 0 {
			duration = timing.EstimateSeconds(seg.Script)
		}

		episode := domain.Episode{
			ID:              uuid.New(),
			CourseID:        courseID,
			Title:           seg.Title,
			Description:     strings.Join(seg.KeyPoints, "; "),
			Order:           i + 1,
			DurationSeconds: duration,
			Status:          domain.EpisodeStatusReady,
			CreatedAt:       time.Now(),
		}
		if asset, ok := assets[i]; ok {
			episode.AudioURL = asset.URL
		}

		if err := p.db.WithContext(ctx).Create(&episode).Error; err != nil {
			p.logger.Warn(ctx, "Failed to create episode %d: %v", episode.Order, err)
			result.Failures = append(result.Failures, Failure{
				Record: fmt.Sprintf("episode %d", episode.Order),
				Err:    err,
			})
		} else {
			result.EpisodesCreated++
		}

		episodes = append(episodes, episode)
	}

	result.Episodes = episodes
	return episodes
}

// persistQuizzes distributes questions to episodes by contiguous index-range
// slicing: perEpisode = ceil(Q/E), episode i receives [i*per, (i+1)*per)
// clipped to the pool. Later episodes may receive none.
func (p *implPersister) persistQuizzes(ctx context.Context, courseID uuid.UUID, episodes []domain.Episode, questions []domain.QuizQuestion, result *Result) {
	if len(episodes) == 0 || len(questions) == 0 {
		return
	}

	perEpisode := (len(questions) + len(episodes) - 1) / len(episodes)

	for i, episode := range episodes {
		from := i * perEpisode
		to := min((i+1)*perEpisode, len(questions))
		if from >= len(questions) {
			break
		}

		for qi, q := range questions[from:to] {
			options, err := json.Marshal(q.Options)
			if err != nil {
				result.Failures = append(result.Failures, Failure{
					Record: fmt.Sprintf("quiz %d", from+qi+1),
					Err:    err,
				})
				continue
			}

			row := domain.EpisodeQuiz{
				ID:                 uuid.New(),
				CourseID:           courseID,
				EpisodeID:          episode.ID,
				Question:           q.Question,
				Options:            datatypes.JSON(options),
				CorrectAnswerIndex: q.CorrectAnswerIndex,
				Explanation:        q.Explanation,
				TriggerPercentage:  q.TriggerPercentage,
				CreatedAt:          time.Now(),
			}

			if err := p.db.WithContext(ctx).Create(&row).Error; err != nil {
				p.logger.Warn(ctx, "Failed to create quiz question %d: %v", from+qi+1, err)
				result.Failures = append(result.Failures, Failure{
					Record: fmt.Sprintf("quiz %d", from+qi+1),
					Err:    err,
				})
			} else {
				result.QuizzesCreated++
			}
		}
	}
}
