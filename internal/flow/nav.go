package flow

import (
	"fmt"
	"slices"

	"github.com/Freeeeeet/parkflow_bot/internal/keyboard"
	"go.uber.org/zap"
)

const (
	textMainMenu = "⬅️ Ви повернулись до головного меню"
	textNoPhone  = "⚠️ Поділіться номером або введіть /start."
)

func (e *Engine) allowed(from, to State) bool {
	def, ok := e.states[from]
	if !ok {
		return false
	}
	return slices.Contains(def.next, to)
}

// advance переходит вперёд: рисует следующий шаг и только после этого
// кладёт текущее состояние в историю
func (e *Engine) advance(t *turn, to State) error {
	from := t.state()
	if !e.allowed(from, to) {
		return fmt.Errorf("%w: %q -> %q", ErrTransition, from, to)
	}

	if err := e.states[to].enter(t); err != nil {
		return err
	}

	t.s.PushHistory(string(from))
	t.s.State = string(to)

	e.logger.Debug("State changed",
		zap.Int64("chat_id", t.in.ChatID),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)
	return nil
}

// goBack возвращает на предыдущий шаг и заново рисует его.
// Если шаг не отрисовался, сессия остаётся прежней.
func (e *Engine) goBack(t *turn) {
	snapshot := t.s.Clone()
	prev, ok := t.s.PopHistory()
	if !ok || State(prev) == StateIdle {
		e.goHome(t)
		return
	}

	def, known := e.states[State(prev)]
	if !known {
		e.fail(t, fmt.Errorf("%w: unknown state %q in history", ErrTransition, prev))
		return
	}

	t.s.State = prev
	t.s.SetOptions(nil)
	if err := def.enter(t); err != nil {
		*t.s = *snapshot
		e.fail(t, err)
	}
}

// goHome сбрасывает диалог, оставляя телефон
func (e *Engine) goHome(t *turn) {
	_ = e.states[StateIdle].enter(t)
}

// enterIdle показывает главное меню; без телефона просит контакт
func (e *Engine) enterIdle(t *turn) error {
	t.s.Clear(true)
	if t.s.Phone == "" {
		t.say(textNoPhone, keyboard.ShareContact())
		return nil
	}
	t.say(textMainMenu, keyboard.Main())
	return nil
}

// jump открывает раздел главного меню с чистого состояния.
// Если раздел не открылся, сессия остаётся прежней.
func (e *Engine) jump(t *turn, target State) {
	if t.s.Phone == "" {
		t.say(textNoPhone, keyboard.ShareContact())
		return
	}

	snapshot := t.s.Clone()
	t.s.Clear(true)
	if err := e.advance(t, target); err != nil {
		*t.s = *snapshot
		e.fail(t, err)
	}
}

// unwind возвращается вверх по истории до меню target и заново рисует его.
// Собранные поля формы сбрасываются.
func (e *Engine) unwind(t *turn, target State) error {
	for {
		prev, ok := t.s.PopHistory()
		if !ok {
			break
		}
		if State(prev) == target {
			t.s.State = prev
			t.s.Fields = make(map[string]string)
			t.s.SetOptions(nil)
			return e.states[target].enter(t)
		}
	}

	t.s.Clear(true)
	return e.advance(t, target)
}
