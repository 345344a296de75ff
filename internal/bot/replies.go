package bot

// User-visible reply strings. The bot speaks Russian, matching its audience.
const (
	replyCommandFailed     = "Произошла ошибка при выполнении команды."
	replyTranscribeFailed  = "Произошла ошибка при расшифровке голосового сообщения."
	replyTranscribePrefix  = "Распознанный текст: "
	replyVoiceGuidance     = "Ответьте на голосовое сообщение или кружочек, чтобы его расшифровать."
	replyNoInteractions    = "Никто не взаимодействовал с ботом."
	replyTooManyMentions   = "Слишком много участников для упоминания в одном сообщении."
	replyMentionsFailed    = "Не удалось упомянуть участников."
	replyNoActiveUsers     = "Нет активных пользователей в этом чате."
	replyRosterComplete    = "Список участников сформирован."
	replyEballNeedsReply   = "Команда /eball должна быть ответом на сообщение."
	replyRollBadOrder      = "Ошибка: начальное число должно быть меньше конечного."
	replyRollBadFormat     = "Неверный формат диапазона. Используйте /roll X-Y."
	replyRollParseError    = "Ошибка: убедитесь, что вы ввели числа в правильном формате (/roll X-Y)."
	replyNicknameNeedReply = "Эта команда должна быть ответом на сообщение пользователя."
	replyNicknameNeedText  = "Укажите никнейм после команды. Пример: /nickname НовыйНик"
	replyNotRegistered     = "Вы не зарегистрированы в системе."
	replyNotAuthorized     = "У тебя нет прав для этой команды."
	replyTargetNotFound    = "Целевой пользователь не найден в базе."
)

// keywordReaction fires one canned reply when any trigger appears as a
// case-insensitive substring of a message. At most one reaction per message.
type keywordReaction struct {
	triggers []string
	reply    string
}

var keywordReactions = []keywordReaction{
	{
		triggers: []string{"майнкрафт", "minecraft"},
		reply:    "Кто сказал майнкрафт?",
	},
}

// eballResponses is the fixed answer pool for /eball.
var eballResponses = []string{
	"Без сомнений",
	"Определенно да",
	"Никаких сомнений",
	"Да",
	"Очень вероятно",
	"Знаки говорят да",
	"Пока не ясно, попробуй снова",
	"Спроси позже",
	"Лучше не говорить сейчас",
	"Сконцентрируйся и спроси снова",
	"Не рассчитывай на это",
	"Мой ответ — нет",
	"Мои источники говорят нет",
	"Перспективы не очень хорошие",
	"Очень сомнительно",
	"Сам решай, я не гадалка.",
	"Ты серьезно спрашиваешь об этом?",
	"А смысл вообще задавать этот вопрос?",
	"Я не Гугл, найди сам.",
	"Зачем тебе это знать? Живи своей жизнью.",
	"Конечно, что ты сомневаешься?",
	"Ты сам-то как думаешь?",
	"А ты попробуй — узнаешь.",
	"Ну, типа, да... Наверное...",
	"Ты точно готов услышать правду?",
	"Да ладно тебе париться, все будет норм.",
	"Окей, братан, давай так: да.",
	"Типа того, но не факт.",
	"Не знаю, я не в теме ваших дел.",
	"А ты сам как считаешь? Я просто шар.",
	"Это же очевидно, бро.",
	"Ну такое, знаешь ли...",
	"Да без разницы, честно.",
	"Ты меня вообще за кого принимаешь? Я не всезнайка!",
	"Я бы на твоем месте не парился.",
	"Ну допустим... А дальше что?",
	"А смысл вообще в этом разбираться?",
	"Лучше спроси у кота.",
	"Я бы мог ответить, но мне лень.",
	"А ты уверен, что хочешь услышать правду?",
	"Ну, короче, да. Но не факт.",
	"Попробуй снова, но уже с чувством.",
	"Это секретная информация, доступная только избранным.",
	"Даже если я скажу, ты все равно не поймешь.",
	"Слушай, я не психолог, разберись сам.",
	"Все зависит от того, как ты посмотришь на ситуацию.",
	"Вселенная говорит «да», но ты можешь спросить еще раз.",
	"Ответ есть, но он находится за пределами твоего понимания.",
	"Истина где-то рядом, но не здесь.",
	"А что такое «правда» вообще?",
}
