package reaction

import "testing"

func TestApply(t *testing.T) {
	tests := []struct {
		name      string
		state     State
		kind      Kind
		wantState State
		wantDelta Delta
	}{
		{
			name:      "like from clean state",
			state:     State{},
			kind:      Like,
			wantState: State{Liked: true},
			wantDelta: Delta{Likes: 1},
		},
		{
			name:      "like toggles off",
			state:     State{Liked: true},
			kind:      Like,
			wantState: State{},
			wantDelta: Delta{Likes: -1},
		},
		{
			name:      "like replaces dislike",
			state:     State{Disliked: true},
			kind:      Like,
			wantState: State{Liked: true},
			wantDelta: Delta{Likes: 1, Dislikes: -1},
		},
		{
			name:      "dislike from clean state",
			state:     State{},
			kind:      Dislike,
			wantState: State{Disliked: true},
			wantDelta: Delta{Dislikes: 1},
		},
		{
			name:      "dislike toggles off",
			state:     State{Disliked: true},
			kind:      Dislike,
			wantState: State{},
			wantDelta: Delta{Dislikes: -1},
		},
		{
			name:      "dislike replaces like",
			state:     State{Liked: true},
			kind:      Dislike,
			wantState: State{Disliked: true},
			wantDelta: Delta{Likes: -1, Dislikes: 1},
		},
		{
			name:      "republish is independent of like",
			state:     State{Liked: true},
			kind:      Republish,
			wantState: State{Liked: true, Republished: true},
			wantDelta: Delta{Republications: 1},
		},
		{
			name:      "republish toggles off",
			state:     State{Republished: true},
			kind:      Republish,
			wantState: State{},
			wantDelta: Delta{Republications: -1},
		},
		{
			name:      "like keeps republish",
			state:     State{Republished: true},
			kind:      Like,
			wantState: State{Liked: true, Republished: true},
			wantDelta: Delta{Likes: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotState, gotDelta, err := Apply(tt.state, tt.kind)
			if err != nil {
				t.Fatalf("Apply() unexpected error: %v", err)
			}
			if gotState != tt.wantState {
				t.Errorf("Apply() state = %+v, want %+v", gotState, tt.wantState)
			}
			if gotDelta != tt.wantDelta {
				t.Errorf("Apply() delta = %+v, want %+v", gotDelta, tt.wantDelta)
			}
		})
	}
}

func TestApply_UnknownKind(t *testing.T) {
	_, _, err := Apply(State{}, Kind("superlike"))
	if err == nil {
		t.Error("Apply() should fail on unknown reaction kind")
	}
}

func TestApply_LikeAndDislikeNeverCoexist(t *testing.T) {
	state := State{}
	for _, kind := range []Kind{Like, Dislike, Like, Republish, Dislike} {
		next, _, err := Apply(state, kind)
		if err != nil {
			t.Fatalf("Apply() unexpected error: %v", err)
		}
		if next.Liked && next.Disliked {
			t.Fatalf("state after %s has both like and dislike: %+v", kind, next)
		}
		state = next
	}
}

func TestValidKind(t *testing.T) {
	for _, kind := range []string{"like", "dislike", "republish"} {
		if !ValidKind(kind) {
			t.Errorf("ValidKind(%q) = false, want true", kind)
		}
	}
	if ValidKind("repost") {
		t.Error("ValidKind(\"repost\") = true, want false")
	}
}
