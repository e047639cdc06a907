package catalog

import "github.com/naranjo-adr-assessor/internal/domain"

// questionTexts holds the ten Naranjo questions per locale, in canonical order.
var questionTexts = map[domain.Locale][domain.QuestionCount]string{
	domain.LOCALE_TH: {
		"เคยมีรายงานสรุปแน่ชัดเกี่ยวกับอาการนี้มาก่อนหรือไม่?",
		"อาการเกิดขึ้นหลังจากได้รับยาที่สงสัยใช่หรือไม่?",
		"อาการดีขึ้นเมื่อหยุดยา หรือได้รับยาต้านจำเพาะหรือไม่?",
		"อาการกลับมาเป็นซ้ำเมื่อได้รับยาเดิมอีกครั้งหรือไม่?",
		"มีสาเหตุอื่น (นอกจากยา) ที่อธิบายอาการนี้ได้หรือไม่?",
		"อาการกำเริบเมื่อได้รับยาหลอก (Placebo) หรือไม่?",
		"ตรวจพบระดับยาในเลือด (หรือสารคัดหลั่ง) ในระดับที่เป็นพิษหรือไม่?",
		"อาการรุนแรงขึ้นเมื่อเพิ่มขนาดยา หรือลดลงเมื่อลดขนาดยาหรือไม่?",
		"ผู้ป่วยเคยมีอาการคล้ายกันกับยาตัวเดิมหรือยาที่คล้ายกันในอดีตหรือไม่?",
		"อาการไม่พึงประสงค์ได้รับการยืนยันด้วยหลักฐานเชิงประจักษ์หรือไม่?",
	},
	domain.LOCALE_EN: {
		"Are there previous conclusive reports on this reaction?",
		"Did the adverse event appear after the suspected drug was administered?",
		"Did the adverse reaction improve when the drug was discontinued or a specific antagonist was administered?",
		"Did the adverse reaction reappear when the drug was re-administered?",
		"Are there alternative causes (other drugs or underlying disease) that could on their own have caused the reaction?",
		"Did the reaction reappear when a placebo was given?",
		"Was the drug detected in the blood (or other fluids) in concentrations known to be toxic?",
		"Was the reaction more severe when the dose was increased or less severe when the dose was decreased?",
		"Did the patient have a similar reaction to the same or similar drugs in any previous exposure?",
		"Was the adverse event confirmed by any objective evidence?",
	},
	domain.LOCALE_LO: {
		"ມີລາຍງານທີ່ຊັດເຈນກ່ຽວກັບປະຕິກິລິຍານີ້ມາກ່ອນບໍ່?",
		"ອາການເກີດຂຶ້ນຫຼັງຈາກໄດ້ຮັບຢາທີ່ສົງໄສແມ່ນບໍ່?",
		"ອາການດີຂຶ້ນເມື່ອຢຸດຢາ ຫຼື ໄດ້ຮັບຢາແກ້ພິດສະເພາະແມ່ນບໍ່?",
		"ອາການກັບມາເປັນອີກເມື່ອໄດ້ຮັບຢາເດີມຊ້ຳແມ່ນບໍ່?",
		"ມີສາເຫດອື່ນ (ນອກຈາກຢາ) ທີ່ອະທິບາຍອາການນີ້ໄດ້ບໍ່?",
		"ອາການກັບມາເປັນອີກເມື່ອໄດ້ຮັບຢາຫຼອກ (Placebo) ແມ່ນບໍ່?",
		"ກວດພົບລະດັບຢາໃນເລືອດ (ຫຼື ສານຄັດຫຼັ່ງ) ໃນລະດັບທີ່ເປັນພິດແມ່ນບໍ່?",
		"ອາການຮຸນແຮງຂຶ້ນເມື່ອເພີ່ມຂະໜາດຢາ ຫຼື ຫຼຸດລົງເມື່ອຫຼຸດຂະໜາດຢາແມ່ນບໍ່?",
		"ຜູ້ປ່ວຍເຄີຍມີອາການຄ້າຍຄືກັນກັບຢາຕົວເດີມ ຫຼື ຢາທີ່ຄ້າຍຄືກັນໃນອະດີດແມ່ນບໍ່?",
		"ອາການບໍ່ພຶງປະສົງໄດ້ຮັບການຢືນຢັນດ້ວຍຫຼັກຖານທີ່ຊັດເຈນແມ່ນບໍ່?",
	},
	domain.LOCALE_MY: {
		"ဤတုံ့ပြန်မှုနှင့်ပတ်သက်၍ ယခင်က အတိအကျ အစီရင်ခံစာများ ရှိပါသလား။",
		"သံသယရှိသောဆေးကို သောက်ပြီးနောက် ဆိုးရွားသောလက္ခဏာများ ပေါ်လာပါသလား။",
		"ဆေးရပ်လိုက်သောအခါ သို့မဟုတ် ဖြေဆေးပေးသောအခါ သက်သာသွားပါသလား။",
		"ဆေးကို ပြန်လည်ပေးသောအခါ လက္ခဏာများ ပြန်ပေါ်လာပါသလား။",
		"ဤလက္ခဏာကို ဖြစ်စေနိုင်သော အခြားအကြောင်းရင်းများ (အခြားဆေး သို့မဟုတ် ရောဂါ) ရှိပါသလား။",
		"ဆေးဝါးအတု (Placebo) ပေးသောအခါ လက္ခဏာများ ပြန်ပေါ်လာပါသလား။",
		"သွေးထဲတွင် (သို့မဟုတ် အခြားအရည်များ) အဆိပ်ဖြစ်စေနိုင်သော ပမာဏအထိ ဆေးဝါးကို တွေ့ရှိရပါသလား။",
		"ဆေးပမာဏတိုးသောအခါ ပိုဆိုးလာပြီး၊ လျှော့သောအခါ သက်သာပါသလား။",
		"လူနာသည် ယခင်က ဤဆေး သို့မဟုတ် ဆင်တူသောဆေးများနှင့် အလားတူဖြစ်ဖူးပါသလား။",
		"ဆိုးရွားသောဖြစ်ရပ်ကို ဓမ္မဓိဋ္ဌာန်ကျသော သက်သေအထောက်အထားဖြင့် အတည်ပြုနိုင်ပါသလား။",
	},
}
