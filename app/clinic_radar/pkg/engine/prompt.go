package engine

const chatFailure = "❌ LLM 호출 실패: %v"

const adSystemPrompt = "당신은 한국의 의료광고 전문가이자 규제 감독자 역할을 합니다. " +
	"사용자가 제공하는 한국 병원 블로그 본문을 읽고 아래 작업을 정확하고 간결하게 수행합니다.\n\n" +
	"- 병원명: 본문에 등장하는 병원명을 정확히 추출\n" +
	"- 과대광고/허위광고 여부: 한국 의료법 기준으로 평가\n" +
	"- 이유: 판단 근거를 간단명료하게 설명"

const adUserPrompt = "[본문]\n%s\n\n" +
	"분석 결과를 아래 형식으로 정리해주세요.\n" +
	"---\n" +
	"✅ 병원명:\n(병원명 텍스트)\n\n" +
	"✅ 과대광고/허위광고 여부:\n(있음/없음)\n\n" +
	"✅ 판단 이유:\n(간단명료한 설명)"

const diagnosisSystemPrompt = "당신은 한국의 의학 전문가입니다. " +
	"사용자가 입력한 증상이나 시술 키워드에 대해, " +
	"한국질병분류코드(KCD)를 코드명+설명 형태로 추천합니다."

const diagnosisUserPrompt = "'%s' 증상으로 병원에서 진단받을 수 있는 한국의료보험 진단코드명을 " +
	"코드명(예: M99.0) + 한글 설명 형태로 표나 리스트로 보기 좋게 정리해줘."
