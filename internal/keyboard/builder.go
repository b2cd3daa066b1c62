// Package keyboard строит reply-клавиатуры без привязки к транспорту.
package keyboard

// Button кнопка reply-клавиатуры
type Button struct {
	Text           string
	RequestContact bool
}

// Keyboard сетка кнопок
type Keyboard struct {
	Rows    [][]Button
	OneTime bool
}

// Labels возвращает подписи всех кнопок по порядку
func (k Keyboard) Labels() []string {
	var labels []string
	for _, row := range k.Rows {
		for _, b := range row {
			labels = append(labels, b.Text)
		}
	}
	return labels
}

// Builder упрощает создание клавиатур
type Builder struct {
	rows    [][]Button
	oneTime bool
}

// NewBuilder создаёт новый builder клавиатуры
func NewBuilder() *Builder {
	return &Builder{
		rows: make([][]Button, 0),
	}
}

// Text создаёт обычную кнопку
func Text(text string) Button {
	return Button{Text: text}
}

// Contact создаёт кнопку запроса номера телефона
func Contact(text string) Button {
	return Button{Text: text, RequestContact: true}
}

// Row добавляет новый ряд кнопок
func (b *Builder) Row(buttons ...Button) *Builder {
	if len(buttons) > 0 {
		b.rows = append(b.rows, buttons)
	}
	return b
}

// Column добавляет по одной кнопке в ряд
func (b *Builder) Column(labels ...string) *Builder {
	for _, l := range labels {
		b.Row(Text(l))
	}
	return b
}

// Nav добавляет стандартный ряд навигации
func (b *Builder) Nav() *Builder {
	return b.Row(Text(BtnBack), Text(BtnHome))
}

// OneTime прячет клавиатуру после нажатия
func (b *Builder) OneTime() *Builder {
	b.oneTime = true
	return b
}

// Build создаёт финальную клавиатуру
func (b *Builder) Build() Keyboard {
	return Keyboard{Rows: b.rows, OneTime: b.oneTime}
}

type buildOptions struct {
	nav bool
}

// Option настройка Build
type Option func(*buildOptions)

// WithoutNav убирает ряд "Назад / Головне меню"
func WithoutNav() Option {
	return func(o *buildOptions) { o.nav = false }
}

// Build раскладывает пункты по одному в ряд и добавляет навигацию
func Build(options []string, opts ...Option) Keyboard {
	o := buildOptions{nav: true}
	for _, opt := range opts {
		opt(&o)
	}

	b := NewBuilder().Column(options...)
	if o.nav {
		b.Nav()
	}
	return b.Build()
}
