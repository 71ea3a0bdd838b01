package analysis

import "github.com/yungbote/materials-advisor/internal/domain"

// placeholderSections builds a fresh set of generic sections for a fallback
// record. Callers may mutate the result.
func placeholderSections(lang domain.Language) map[string]map[string]any {
	if lang == domain.LanguageRU {
		return map[string]map[string]any{
			SectionProductAssessment: {
				"purpose":               "Анализ выполнен на основе предоставленных данных",
				"operating_conditions":  "Приняты стандартные условия эксплуатации",
				"critical_requirements": "Требования извлечены из исходных данных",
			},
			SectionMaterialSelection: {
				"recommended_materials": []any{"Стальные сплавы", "Алюминиевые сплавы"},
				"primary_choice":        "Определяется по конкретным требованиям",
				"justification":         "",
				"properties_analysis":   "Требуются стандартные механические свойства",
				"gost_standards":        []any{"ГОСТ 1050", "ГОСТ 4543"},
			},
			SectionManufacturingTechnology: {
				"processing_methods": []any{"Механическая обработка", "Термическая обработка"},
				"heat_treatment":     "Стандартные режимы термической обработки",
				"surface_treatment":  "По требованиям применения",
				"quality_control":    "Стандартные процедуры контроля качества",
			},
			SectionStructuralCharacteristics: {
				"microstructure":        "Предпочтительна мелкозернистая структура",
				"grain_structure":       "Однородная зеренная структура",
				"phase_composition":     "Сбалансированный фазовый состав",
				"mechanical_properties": "Высокая прочность и пластичность",
			},
			SectionDefectAnalysis: {
				"common_defects":     []any{"Трещины", "Включения", "Отклонения размеров"},
				"causes":             []any{"Дефекты материала", "Ошибки обработки", "Конструктивные недочеты"},
				"prevention_methods": []any{"Правильный выбор материала", "Контроль технологического процесса"},
				"correction_methods": []any{"Ремонтная сварка", "Механическая обработка", "Термическая обработка"},
			},
			SectionTestingMethods: {
				"mechanical_tests":      []any{"Испытание на растяжение", "Измерение твердости", "Испытание на ударный изгиб"},
				"non_destructive_tests": []any{"Визуальный контроль", "Ультразвуковой контроль"},
				"standards":             []any{"ГОСТ 1497", "ГОСТ 9454"},
				"acceptance_criteria":   "Согласно применимым стандартам",
			},
		}
	}
	return map[string]map[string]any{
		SectionProductAssessment: {
			"purpose":               "Analysis based on provided data",
			"operating_conditions":  "Standard operating conditions assumed",
			"critical_requirements": "Requirements extracted from input",
		},
		SectionMaterialSelection: {
			"recommended_materials": []any{"Steel alloys", "Aluminum alloys"},
			"primary_choice":        "To be determined based on specific requirements",
			"justification":         "",
			"properties_analysis":   "Standard mechanical properties required",
			"gost_standards":        []any{"GOST 1050", "GOST 4543"},
		},
		SectionManufacturingTechnology: {
			"processing_methods": []any{"Machining", "Heat treatment"},
			"heat_treatment":     "Standard heat treatment procedures",
			"surface_treatment":  "As required by application",
			"quality_control":    "Standard QC procedures",
		},
		SectionStructuralCharacteristics: {
			"microstructure":        "Fine-grained structure preferred",
			"grain_structure":       "Uniform grain structure",
			"phase_composition":     "Balanced phase composition",
			"mechanical_properties": "High strength and ductility",
		},
		SectionDefectAnalysis: {
			"common_defects":     []any{"Cracks", "Inclusions", "Dimensional deviations"},
			"causes":             []any{"Material defects", "Processing errors", "Design issues"},
			"prevention_methods": []any{"Proper material selection", "Process control"},
			"correction_methods": []any{"Repair welding", "Machining", "Heat treatment"},
		},
		SectionTestingMethods: {
			"mechanical_tests":      []any{"Tensile test", "Hardness test", "Impact test"},
			"non_destructive_tests": []any{"Visual inspection", "Ultrasonic testing"},
			"standards":             []any{"GOST 1497", "GOST 9454"},
			"acceptance_criteria":   "Per applicable standards",
		},
	}
}
