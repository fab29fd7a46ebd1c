package services

import "testing"

func TestPickQuestionsSampleSize(t *testing.T) {
	got := PickQuestions()
	if len(got) != QuestionsPerInterview {
		t.Fatalf("PickQuestions returned %d questions, want %d", len(got), QuestionsPerInterview)
	}
}

func TestPickQuestionsUniqueAndFromPool(t *testing.T) {
	pool := make(map[string]bool, len(QuestionPool))
	for _, q := range QuestionPool {
		pool[q] = true
	}

	for i := 0; i < 50; i++ {
		sample := PickQuestions()
		seen := make(map[string]bool, len(sample))
		for _, q := range sample {
			if !pool[q] {
				t.Fatalf("sampled question not in pool: %q", q)
			}
			if seen[q] {
				t.Fatalf("duplicate question in sample: %q", q)
			}
			seen[q] = true
		}
	}
}

func TestPickQuestionsVaries(t *testing.T) {
	first := PickQuestions()
	for i := 0; i < 20; i++ {
		next := PickQuestions()
		for j := range next {
			if next[j] != first[j] {
				return
			}
		}
	}
	t.Fatal("every sample was identical, sampling looks broken")
}
