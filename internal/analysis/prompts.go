package analysis

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/yungbote/materials-advisor/internal/domain"
)

const sectionSchema = `{
    "product_assessment": {
        "purpose": "Description of product purpose and application",
        "operating_conditions": "Temperature, stress, environmental conditions analysis",
        "critical_requirements": "Key technical requirements"
    },
    "material_selection": {
        "recommended_materials": ["List of suitable materials"],
        "primary_choice": "Main recommended material",
        "justification": "Detailed justification for material choice",
        "properties_analysis": "Required mechanical and physical properties",
        "gost_standards": ["Relevant GOST standards"]
    },
    "manufacturing_technology": {
        "processing_methods": ["Recommended manufacturing processes"],
        "heat_treatment": "Heat treatment recommendations",
        "surface_treatment": "Surface treatment options",
        "quality_control": "Quality control measures"
    },
    "structural_characteristics": {
        "microstructure": "Required microstructural characteristics",
        "grain_structure": "Grain structure requirements",
        "phase_composition": "Phase composition analysis",
        "mechanical_properties": "Target mechanical properties"
    },
    "defect_analysis": {
        "common_defects": ["Typical defects for this application"],
        "causes": ["Root causes of defects"],
        "prevention_methods": ["Defect prevention strategies"],
        "correction_methods": ["Methods to fix existing defects"]
    },
    "testing_methods": {
        "mechanical_tests": ["Required mechanical testing methods"],
        "non_destructive_tests": ["NDT methods"],
        "standards": ["Testing standards and procedures"],
        "acceptance_criteria": "Quality acceptance criteria"
    }
}`

var systemTemplates = map[domain.Language]string{
	domain.LanguageEN: `You are an expert materials engineer and technical consultant specializing in material selection for mechanical engineering applications. Your task is to analyze technical drawings, descriptions and specifications and provide comprehensive material recommendations.

Cover all of the following sections:
1. PRODUCT PURPOSE AND OPERATING CONDITIONS
2. MATERIAL SELECTION AND JUSTIFICATION
3. MANUFACTURING TECHNOLOGY RECOMMENDATIONS
4. STRUCTURAL CHARACTERISTICS
5. DEFECT ANALYSIS AND PREVENTION
6. TESTING METHODS AND STANDARDS

Give specific, actionable recommendations and reference GOST standards where applicable. Answer in English. Respond with a single JSON object shaped exactly like this template:
{{.Schema}}`,
	domain.LanguageRU: `Вы эксперт-материаловед и технический консультант, специализирующийся на выборе материалов для машиностроения. Ваша задача: проанализировать технические чертежи, описания и спецификации и дать комплексные рекомендации по материалам.

Охватите все следующие разделы:
1. НАЗНАЧЕНИЕ ИЗДЕЛИЯ И УСЛОВИЯ ЭКСПЛУАТАЦИИ
2. ВЫБОР И ОБОСНОВАНИЕ МАТЕРИАЛА
3. РЕКОМЕНДАЦИИ ПО ТЕХНОЛОГИИ ИЗГОТОВЛЕНИЯ
4. СТРУКТУРНЫЕ ХАРАКТЕРИСТИКИ
5. АНАЛИЗ И ПРЕДОТВРАЩЕНИЕ ДЕФЕКТОВ
6. МЕТОДЫ ИСПЫТАНИЙ И СТАНДАРТЫ

Давайте конкретные практические рекомендации со ссылками на ГОСТ. Отвечайте на русском языке. Ключи JSON оставьте на английском. Ответ: один JSON-объект строго по шаблону:
{{.Schema}}`,
}

var userTemplates = map[domain.Language]string{
	domain.LanguageEN: `Please analyze the following technical description and drawing data and provide a comprehensive materials engineering report.

INPUT DATA:
{{.Input}}

Provide a detailed analysis in JSON format with the following structure:

{{.Schema}}

Base the recommendations on engineering practice and Russian technical standards (GOST).`,
	domain.LanguageRU: `Пожалуйста, проанализируйте следующие технические описания и данные чертежей и предоставьте комплексный отчет по материаловедению.

ИСХОДНЫЕ ДАННЫЕ:
{{.Input}}

Предоставьте подробный анализ в формате JSON со следующей структурой:

{{.Schema}}

Основывайте рекомендации на инженерной практике и российских технических стандартах (ГОСТ).`,
}

type promptData struct {
	Input  string
	Schema string
}

var (
	systemTmpl = mustParse("system", systemTemplates)
	userTmpl   = mustParse("user", userTemplates)
)

func mustParse(kind string, src map[domain.Language]string) map[domain.Language]*template.Template {
	out := make(map[domain.Language]*template.Template, len(src))
	for lang, text := range src {
		out[lang] = template.Must(template.New(kind + "_" + string(lang)).Parse(text))
	}
	return out
}

// BuildPrompts renders the system instruction and the user prompt for lang.
func BuildPrompts(input string, lang domain.Language) (system string, user string, err error) {
	lang = domain.ParseLanguage(string(lang))
	data := promptData{Input: strings.TrimSpace(input), Schema: sectionSchema}

	var sb, ub bytes.Buffer
	if err := systemTmpl[lang].Execute(&sb, data); err != nil {
		return "", "", fmt.Errorf("render system prompt: %w", err)
	}
	if err := userTmpl[lang].Execute(&ub, data); err != nil {
		return "", "", fmt.Errorf("render user prompt: %w", err)
	}
	return sb.String(), ub.String(), nil
}
