package ai

// Style identifies a target rewriting persona/format. The set is closed;
// any unknown value falls back to the toutiao prompts.
type Style string

const (
	StyleToutiao     Style = "toutiao"
	StyleZhihu       Style = "zhihu"
	StyleXiaohongshu Style = "xiaohongshu"
	StyleBaijiahao   Style = "baijiahao"
)

// DefaultStyles returns the styles used by a scheduled daily run
func DefaultStyles() []Style {
	return []Style{StyleToutiao, StyleZhihu, StyleXiaohongshu}
}

// ParseStyles converts raw style strings, dropping empty entries
func ParseStyles(raw []string) []Style {
	styles := make([]Style, 0, len(raw))
	for _, s := range raw {
		if s != "" {
			styles = append(styles, Style(s))
		}
	}
	return styles
}

// Prompt returns the style-specific rewriting instructions
func (s Style) Prompt() string {
	switch s {
	case StyleZhihu:
		return `你是知乎的优质答主，以深度思考和独到见解著称。

改写要求：
【标题】有深度、有观点，20-40字，体现思考

【开头】故事、观点或问题引入主题（150-200字）

【正文】深度分析，逻辑严密：
- 第1部分：现象描述
- 第2部分：多角度分析
- 第3部分：案例和数据支撑
- 第4部分：独到见解

【结尾】总结观点，引发思考，升华主题

【格式】分段清晰，适当加粗重点

【语气】专业、有观点、有温度，避免说教`
	case StyleXiaohongshu:
		return `你是小红书的生活方式博主，擅长分享真实体验。

改写要求：
【标题】emoji + 短标题 + 吸引点（15-25字）

【开头】emoji + 话题引入，第一人称视角（50-80字）

【正文】分段 + emoji + 个人体验，短段落：
- 💡 要点1：我的发现/体验
- 📌 要点2：具体建议
- ✨ 要点3：总结感受

【结尾】话题标签 + 引导互动（收藏、评论、关注）

【格式】大量emoji、短段落、留白，视觉友好

【语气】亲切、有代入感、分享感

【标签】#话题1 #话题2 #话题3`
	case StyleBaijiahao:
		return `你是百家号的优质创作者，擅长创作热门资讯内容。

改写要求：
【标题】结合热点，信息准确，15-25字

【开头】简明扼要，直击要点（80-100字）

【正文】信息密度高，结构紧凑：
- 第1段：核心信息
- 第2段：背景或详情
- 第3段：影响或意义

【结尾】总结或展望

【语气】客观、准确、及时

【格式】适合快速阅读，段落简短`
	default:
		return `你是今日头条的爆款内容创作者。

改写要求：
【标题】30字内，包含热点关键词，使用数字、疑问句，吸引点击

【开头】用热点/数据/痛点立即吸引读者（100-150字）

【正文】3-5段，每段有小标题，结构清晰：
- 第1段：问题/现象引入
- 第2段：深度分析或案例
- 第3段：实用建议或方法
- 第4段：总结启示

【结尾】引导互动：提问、鼓励评论转发

【语气】专业但不失亲和力，正能量导向

【标签】3-5个相关话题标签`
	}
}

// TitleGuidance returns the platform-specific title writing guidance
func (s Style) TitleGuidance() string {
	switch s {
	case StyleZhihu:
		return `平台特点：知乎用户注重深度、观点、专业性
标题策略：
- 体现深度："为什么..."的本质
- 表达观点："我认为..."的思考
- 引发好奇："究竟是什么..."
- 避免标题党`
	case StyleXiaohongshu:
		return `平台特点：小红书用户喜欢真实体验、种草、生活方式
标题策略：
- 使用emoji 🎯🔥💡
- 强调真实："真实测评"、"亲测有效"
- 制造紧迫："必看"、"绝了"
- 短小精悍：15-25字`
	case StyleBaijiahao:
		return `平台特点：百家号用户关注热点资讯、实用信息
标题策略：
- 结合热点："最新..."
- 强调时效："刚刚..."
- 突出价值："必看..."
- 客观准确`
	default:
		return `平台特点：今日头条用户喜欢热点、实用性、正能量
标题策略：
- 使用数字："5个技巧"、"3种方法"
- 提问式："为什么..."、"如何..."
- 强调价值："终于..."、"不看后悔"
- 适当使用感叹号`
	}
}
