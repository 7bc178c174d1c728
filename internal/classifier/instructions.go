package classifier

import "slices"

// Instructions is the fixed system-level rubric sent with every comment.
const Instructions = `Tendrás un rol de clasificador de comentarios de una publicación relacionada con la vacuna contra el VPH.
Sólo debes responder con un valor numérico.
No tienes permitido responder otra cosa que no sean números. Las clasificaciones son:

0: El comentario tiene una postura contraria a la vacuna contra el VPH (antivacuna).
1: El comentario tiene una postura a favor de la vacuna contra el VPH (provacuna).
2: El comentario refleja una duda o dudas relacionadas con la vacuna contra el VPH.
3: El comentario habla de cualquier otra cosa.

Trata de interpretar las intenciones de las personas, ya que se trata de comentarios de Facebook.
Si no puedes clasificar, tu respuesta debe ser "3".

Ahora, clasifica el siguiente comentario, teniendo en cuenta que tu respuesta es solo un número:`

// Labels returned by a conforming upstream model, plus the failure sentinel.
const (
	LabelAntiVaccine = "0"
	LabelProVaccine  = "1"
	LabelDoubt       = "2"
	LabelOther       = "3"
	LabelError       = "Error"
)

// Category describes one classification outcome for display.
type Category struct {
	Label       string `json:"label"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

var categories = []Category{
	{
		Label:       LabelAntiVaccine,
		Name:        "antivacuna",
		Description: "Comentario con postura contraria a la vacuna contra el VPH.",
	},
	{
		Label:       LabelProVaccine,
		Name:        "provacuna",
		Description: "Comentario con postura a favor de la vacuna contra el VPH.",
	},
	{
		Label:       LabelDoubt,
		Name:        "duda",
		Description: "Comentario que refleja una duda o dudas sobre la vacuna contra el VPH.",
	},
	{
		Label:       LabelOther,
		Name:        "otra cosa",
		Description: "Comentario que habla de cualquier otra cosa o en el que no se pueda clasificar.",
	},
}

// Categories returns the category legend in label order.
func Categories() []Category {
	return slices.Clone(categories)
}

// IsLabel reports whether s is one of the four category labels.
// The failure sentinel is not a label.
func IsLabel(s string) bool {
	return slices.ContainsFunc(categories, func(c Category) bool {
		return c.Label == s
	})
}
