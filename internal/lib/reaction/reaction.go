// Package reaction реализует правила реакций пользователя на публикацию.
//
// Лайк и дизлайк — взаимоисключающие переключатели: установка одного
// снимает другой. Репост — независимый переключатель, на лайк и дизлайк
// он не влияет. Повторное применение реакции снимает её.
package reaction

import "fmt"

// Kind — вид реакции.
type Kind string

const (
	// Like — лайк публикации.
	Like Kind = "like"
	// Dislike — дизлайк публикации.
	Dislike Kind = "dislike"
	// Republish — репост публикации.
	Republish Kind = "republish"
)

// ValidKind сообщает, является ли строка известным видом реакции.
func ValidKind(kind string) bool {
	switch Kind(kind) {
	case Like, Dislike, Republish:
		return true
	}
	return false
}

// State — реакции одного пользователя на одну публикацию.
type State struct {
	Liked       bool
	Disliked    bool
	Republished bool
}

// Delta — изменение счётчиков публикации после применения реакции.
type Delta struct {
	Likes          int
	Dislikes       int
	Republications int
}

// Apply применяет реакцию kind к состоянию state и возвращает новое
// состояние вместе с изменением счётчиков публикации.
func Apply(state State, kind Kind) (State, Delta, error) {
	next := state
	var d Delta

	switch kind {
	case Like:
		if state.Liked {
			next.Liked = false
			d.Likes = -1
			break
		}
		next.Liked = true
		d.Likes = 1
		if state.Disliked {
			next.Disliked = false
			d.Dislikes = -1
		}
	case Dislike:
		if state.Disliked {
			next.Disliked = false
			d.Dislikes = -1
			break
		}
		next.Disliked = true
		d.Dislikes = 1
		if state.Liked {
			next.Liked = false
			d.Likes = -1
		}
	case Republish:
		if state.Republished {
			next.Republished = false
			d.Republications = -1
		} else {
			next.Republished = true
			d.Republications = 1
		}
	default:
		return state, Delta{}, fmt.Errorf("unknown reaction kind: %q", kind)
	}

	return next, d, nil
}
