package assessment

// LevelInfo ED 等级与各项考试分数的对照
type LevelInfo struct {
	Name  string `json:"name"`
	Desc  string `json:"desc"`
	CEFR  string `json:"cefr"`
	TOEIC string `json:"toeic"`
	IELTS string `json:"ielts"`
}

const PreBasic = "Pre-Basic"

// Levels 从低到高排列
var Levels = []LevelInfo{
	{Name: PreBasic, Desc: "영어 완전 초보자 대상 기초 입문", CEFR: "A1", TOEIC: "10-224", IELTS: "1.0-2.5"},
	{Name: "Basic 1", Desc: "기초 단어와 짧은 문장으로 의사 표현", CEFR: "A1", TOEIC: "120-224", IELTS: "2.5-3.0"},
	{Name: "Basic 2", Desc: "기초 회화 및 기본 표현 구사", CEFR: "A2", TOEIC: "225-549", IELTS: "3.0-3.5"},
	{Name: "Basic 3", Desc: "일상 주제에 대한 간단한 대화 가능", CEFR: "A2", TOEIC: "400-549", IELTS: "3.5-4.0"},
	{Name: "Intermediate 1", Desc: "익숙한 주제로 문장을 이어 말하기 가능", CEFR: "B1", TOEIC: "550-649", IELTS: "4.0-4.5"},
	{Name: "Intermediate 2", Desc: "중급 실용 영어 및 사회적 의사소통", CEFR: "B1", TOEIC: "550-784", IELTS: "4.5-5.0"},
	{Name: "Intermediate 3", Desc: "사소한 실수는 있으나 자신감 있는 의사소통", CEFR: "B2", TOEIC: "700-784", IELTS: "5.0-5.5"},
	{Name: "Advanced 1", Desc: "업무 및 학업 상황에서 유창한 표현", CEFR: "B2", TOEIC: "785-944", IELTS: "5.5-6.5"},
	{Name: "Advanced 2", Desc: "고급 전문 표현과 자연스러운 억양", CEFR: "C1", TOEIC: "850-944", IELTS: "6.5-7.0"},
	{Name: "Advanced 3", Desc: "원어민 수준의 유창성과 정확성", CEFR: "C1", TOEIC: "945-990", IELTS: "7.0-9.0"},
}

// LevelIndex 等级名称的序号，不在列表中返回 -1
func LevelIndex(name string) int {
	for i, l := range Levels {
		if l.Name == name {
			return i
		}
	}
	return -1
}

func LookupLevel(name string) (LevelInfo, bool) {
	i := LevelIndex(name)
	if i < 0 {
		return LevelInfo{}, false
	}
	return Levels[i], true
}
